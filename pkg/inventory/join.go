package inventory

// Join pairs every asset with the first description sharing its classid and
// returns the resulting items in asset order. Assets without a matching
// description are skipped and counted in dropped.
//
// Descriptions are indexed by classid once per call; only the first
// description of each classid is indexed, so a later duplicate never wins.
func Join(assets []Asset, descriptions []Description) (items []Item, dropped int) {
	byClass := make(map[string]int, len(descriptions))
	for i, d := range descriptions {
		if _, seen := byClass[d.ClassID]; !seen {
			byClass[d.ClassID] = i
		}
	}

	items = make([]Item, 0, len(assets))
	for _, a := range assets {
		i, ok := byClass[a.ClassID]
		if !ok {
			dropped++
			continue
		}
		items = append(items, NewItem(a, descriptions[i]))
	}
	return items, dropped
}
