// Package inventory fetches a Steam community inventory and joins its
// assets with their shared descriptions into Items.
//
// A fetch has two phases. Construction validates the request without any
// I/O:
//
//	fetcher, err := inventory.NewFetcher(steamClient, inventory.Options{
//		AccountID: "76561197969338647",
//		FetchAll:  true,
//	})
//
// Fetch then performs the paged requests:
//
//	inv, err := fetcher.Fetch(ctx)
//	for _, item := range inv.Items() {
//		fmt.Println(item.MarketHashName, item.LargeImageURL())
//	}
//
// Without FetchAll exactly one page is requested, whatever more_items says.
// With FetchAll the page size is forced to MaxPageSize and ExtraPages
// follow-up pages are requested, each starting after the previous page's
// last_assetid.
//
// Every page must report success and carry at least one asset and one
// description; otherwise the fetch stops with ErrMalformedResponse and no
// items are returned. A failed HTTP call counts as an empty page, so it
// fails the same way. Use errors.As to reach the transport error.
//
// Assets are joined to the first description with the same classid. Assets
// with no matching description are left out.
package inventory
