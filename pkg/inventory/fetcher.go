package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher runs the pagination engine for one configuration.
type Fetcher struct {
	pages  PageFetcher
	config *Configuration
	logger zerolog.Logger
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger used for fetch progress.
func WithLogger(logger zerolog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher validates src and returns a Fetcher. No request is made until
// Fetch is called. src may be a *Configuration or an Options value; Options
// are validated through NewConfiguration.
func NewFetcher(pages PageFetcher, src Source, opts ...FetcherOption) (*Fetcher, error) {
	if src == nil {
		return nil, ErrNoConfiguration
	}
	if pages == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}

	config, err := src.configuration()
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		pages:  pages,
		config: config.Clone(),
		logger: log.With().Str("component", "inventory-fetcher").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Configuration returns a copy of the fetcher's configuration.
func (f *Fetcher) Configuration() *Configuration {
	return f.config.Clone()
}

// ExtraPages returns how many pages fetch-all requests after the first one:
// totalCount/pageSize rounded to the nearest integer, halves away from zero.
//
// This is rounding, not ceiling: 7400 items at 5000 per page gives 1 extra
// page, while 7500 and 10000 items give 2. Whenever the quotient is whole
// or has a fractional part of .5 or more, the last request goes past the
// end of the inventory. That request carries no cursor if the previous page
// reported no last_assetid, so it starts over from the first asset.
func ExtraPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return int(math.Round(float64(totalCount) / float64(pageSize)))
}

// Fetch requests the first page and, in fetch-all mode, the number of
// follow-up pages given by ExtraPages. Pages are requested strictly in
// sequence because each cursor comes from the previous page.
//
// Any page that fails validation aborts the fetch with a *ResponseError.
// Transport errors are not returned separately: the page is treated as an
// empty body, so they also surface as ErrMalformedResponse, with the
// transport error reachable through errors.As.
func (f *Fetcher) Fetch(ctx context.Context) (*Inventory, error) {
	start := time.Now()

	// The engine moves the cursor on its own copy.
	config := f.config.Clone()
	mode := "single"
	if config.FetchAll() {
		mode = "all"
		config.SetFetchAll(true)
	}
	defer func() {
		fetchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	logger := f.logger.With().
		Str("account_id", config.AccountID()).
		Str("app_id", config.AppID()).
		Str("context_id", config.ContextID()).
		Logger()

	logger.Debug().
		Str("mode", mode).
		Int("page_size", config.PageSize()).
		Str("cursor", config.Cursor()).
		Msg("Starting inventory fetch")

	inv := &Inventory{accountID: config.AccountID()}

	// Step 1: First page
	if err := f.fetchPage(ctx, logger, config, inv); err != nil {
		return nil, err
	}

	if !config.FetchAll() {
		logger.Info().
			Int("items", inv.Len()).
			Int("total", inv.TotalCount()).
			Bool("more_items", inv.MoreItems()).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return inv, nil
	}

	// Step 2: Follow-up pages
	extra := ExtraPages(inv.TotalCount(), config.PageSize())
	logger.Debug().
		Int("total", inv.TotalCount()).
		Int("extra_pages", extra).
		Msg("Paging through inventory")

	for i := 0; i < extra; i++ {
		// An absent last_assetid clears the cursor, restarting from the
		// first asset.
		config.SetCursor(inv.LastAssetID())
		if err := f.fetchPage(ctx, logger, config, inv); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("items", inv.Len()).
		Int("total", inv.TotalCount()).
		Int("pages", inv.Pages()).
		Int("dropped", inv.Dropped()).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return inv, nil
}

// fetchPage requests, validates, joins and merges one page.
func (f *Fetcher) fetchPage(ctx context.Context, logger zerolog.Logger, config *Configuration, inv *Inventory) error {
	pageNum := inv.Pages() + 1
	req := config.PageRequest()

	body, transportErr := f.pages.FetchPage(ctx, req)
	if transportErr != nil {
		logger.Warn().
			Err(transportErr).
			Int("page", pageNum).
			Msg("Page request failed")
		pagesTotal.WithLabelValues("transport_error").Inc()
		body = nil
	}

	page, err := ParsePage(body)
	if err != nil {
		cause := transportErr
		if cause == nil {
			cause = err
			pagesTotal.WithLabelValues("malformed").Inc()
		}
		return f.abort(logger, &ResponseError{
			Page:         pageNum,
			Reason:       "unreadable response",
			ItemsFetched: inv.Len(),
			Err:          cause,
		})
	}

	if err := page.Validate(); err != nil {
		pagesTotal.WithLabelValues("malformed").Inc()
		respErr := &ResponseError{Reason: err.Error()}
		errors.As(err, &respErr)
		respErr.Page = pageNum
		respErr.ItemsFetched = inv.Len()
		return f.abort(logger, respErr)
	}

	items, dropped := Join(page.Assets, page.Descriptions)
	inv.merge(page, items, dropped)

	pagesTotal.WithLabelValues("ok").Inc()
	itemsJoinedTotal.Add(float64(len(items)))
	assetsDroppedTotal.Add(float64(dropped))

	logger.Debug().
		Int("page", pageNum).
		Str("cursor", req.Cursor).
		Int("assets", len(page.Assets)).
		Int("descriptions", len(page.Descriptions)).
		Int("items", len(items)).
		Int("dropped", dropped).
		Str("last_assetid", page.LastAssetID).
		Msg("Page merged")

	return nil
}

func (f *Fetcher) abort(logger zerolog.Logger, err *ResponseError) error {
	logger.Warn().
		Err(err).
		Int("page", err.Page).
		Int("items_fetched", err.ItemsFetched).
		Msg("Aborting inventory fetch")
	return err
}
