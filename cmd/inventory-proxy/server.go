package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
	"github.com/Sternrassler/steam-inventory-client/pkg/journal"
	"github.com/Sternrassler/steam-inventory-client/pkg/metrics"
	"github.com/Sternrassler/steam-inventory-client/pkg/steamid"
)

const defaultRunsLimit = 20

var errProxyNotAllowed = errors.New("proxy not allowed")

// runJournal is the part of *journal.Journal the server uses.
type runJournal interface {
	Append(ctx context.Context, rec journal.Record) error
	Recent(ctx context.Context, accountID string, n int) ([]journal.Record, error)
}

// server serves inventories over HTTP. journal is nil when disabled.
// proxies holds the normalized proxies callers may select.
type server struct {
	pages          inventory.PageFetcher
	journal        runJournal
	proxies        map[string]struct{}
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// proxyAllowlist normalizes the configured proxies. Entries that are not
// usable proxy addresses are returned separately.
func proxyAllowlist(entries []string) (map[string]struct{}, []string) {
	allowed := make(map[string]struct{}, len(entries))
	var rejected []string
	for _, entry := range entries {
		normalized, ok := inventory.NormalizeProxy(entry)
		if !ok {
			rejected = append(rejected, entry)
			continue
		}
		allowed[normalized] = struct{}{}
	}
	return allowed, rejected
}

// inventoryResponse is the JSON body of a successful fetch.
type inventoryResponse struct {
	AccountID   string           `json:"account_id"`
	TotalCount  int              `json:"total_inventory_count"`
	MoreItems   bool             `json:"more_items"`
	LastAssetID string           `json:"last_assetid,omitempty"`
	Pages       int              `json:"pages"`
	Dropped     int              `json:"dropped"`
	Count       int              `json:"count"`
	Items       []inventory.Item `json:"items"`
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Error        string `json:"error"`
	Page         int    `json:"page,omitempty"`
	ItemsFetched int    `json:"items_fetched,omitempty"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/inventory/{accountID}", s.handleInventory)
	r.Get("/inventory/{accountID}/runs", s.handleRuns)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleInventory fetches an inventory. Query parameters map onto
// inventory.Options: app, context, l, count, start, proxy and all. A proxy
// must be on the configured allowlist.
func (s *server) handleInventory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fetchAll, _ := strconv.ParseBool(query.Get("all"))

	opts := inventory.Options{
		AccountID: accountParam(r),
		AppID:     query.Get("app"),
		ContextID: query.Get("context"),
		Language:  query.Get("l"),
		PageSize:  query.Get("count"),
		Cursor:    query.Get("start"),
		ProxyURL:  query.Get("proxy"),
		FetchAll:  fetchAll,
	}

	// Step 1: Validate request
	fetcher, err := inventory.NewFetcher(s.pages, opts, inventory.WithLogger(s.logger))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if proxy := fetcher.Configuration().Proxy(); proxy != "" {
		if _, ok := s.proxies[proxy]; !ok {
			s.logger.Warn().Str("account_id", opts.AccountID).Msg("Rejected proxy outside allowlist")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errProxyNotAllowed.Error()})
			return
		}
	}

	// Step 2: Fetch
	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	started := time.Now()
	inv, err := fetcher.Fetch(ctx)

	// Step 3: Journal the run
	s.record(r.Context(), journal.NewRecord(fetcher.Configuration(), inv, err, started))

	if err != nil {
		resp := errorResponse{Error: err.Error()}
		var respErr *inventory.ResponseError
		if errors.As(err, &respErr) {
			resp.Page = respErr.Page
			resp.ItemsFetched = respErr.ItemsFetched
		}
		writeJSON(w, fetchErrorStatus(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, inventoryResponse{
		AccountID:   inv.AccountID(),
		TotalCount:  inv.TotalCount(),
		MoreItems:   inv.MoreItems(),
		LastAssetID: inv.LastAssetID(),
		Pages:       inv.Pages(),
		Dropped:     inv.Dropped(),
		Count:       inv.Len(),
		Items:       inv.Items(),
	})
}

// handleRuns lists the most recent journaled runs of an account.
func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "journal disabled"})
		return
	}

	id, err := steamid.Normalize(accountParam(r))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	limit := defaultRunsLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	records, err := s.journal.Recent(r.Context(), id.String(), limit)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id.String()).Msg("Reading journal failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "journal unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// accountParam returns the unescaped account path segment, so ids such as
// [U:1:9072919] can be sent percent-encoded.
func accountParam(r *http.Request) string {
	param := chi.URLParam(r, "accountID")
	if unescaped, err := url.PathUnescape(param); err == nil {
		return unescaped
	}
	return param
}

func (s *server) record(ctx context.Context, rec journal.Record) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("account_id", rec.AccountID).Msg("Journal append failed")
	}
}

// fetchErrorStatus maps a failed fetch to a response status. Steam rate
// limiting is passed through; everything else is a bad upstream answer.
func fetchErrorStatus(err error) int {
	switch {
	case client.Classify(err) == client.ErrorClassRateLimit:
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request finished")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
