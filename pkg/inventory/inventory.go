package inventory

// Inventory accumulates the items of one fetch together with the paging
// state reported by the most recent page.
type Inventory struct {
	accountID   string
	items       []Item
	totalCount  int
	moreItems   bool
	lastAssetID string
	pages       int
	dropped     int
}

// AccountID returns the SteamID64 the inventory belongs to.
func (inv *Inventory) AccountID() string { return inv.accountID }

// Items returns a copy of the joined items in fetch order.
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of items.
func (inv *Inventory) Len() int { return len(inv.items) }

// TotalCount is the total_inventory_count of the last page.
func (inv *Inventory) TotalCount() int { return inv.totalCount }

// MoreItems is the more_items flag of the last page.
func (inv *Inventory) MoreItems() bool { return inv.moreItems }

// LastAssetID is the last_assetid of the last page; pass it as the cursor
// of a follow-up fetch.
func (inv *Inventory) LastAssetID() string { return inv.lastAssetID }

// Pages is the number of pages merged.
func (inv *Inventory) Pages() int { return inv.pages }

// Dropped is the number of assets skipped for lack of a description.
func (inv *Inventory) Dropped() int { return inv.dropped }

func (inv *Inventory) merge(p *Page, items []Item, dropped int) {
	inv.totalCount = p.TotalCount
	inv.moreItems = p.MoreItems
	inv.lastAssetID = p.LastAssetID
	inv.items = append(inv.items, items...)
	inv.dropped += dropped
	inv.pages++
}
