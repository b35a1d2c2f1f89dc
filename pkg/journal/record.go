package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
)

// Record describes one fetch run.
type Record struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	AppID     string    `json:"app_id"`
	ContextID string    `json:"context_id"`
	Language  string    `json:"language"`
	FetchAll  bool      `json:"fetch_all"`
	StartedAt time.Time `json:"started_at"`
	Duration  float64   `json:"duration_seconds"`

	// Result of a successful run.
	Pages      int    `json:"pages"`
	Items      int    `json:"items"`
	Dropped    int    `json:"dropped"`
	TotalCount int    `json:"total_count"`
	MoreItems  bool   `json:"more_items"`
	LastAsset  string `json:"last_assetid,omitempty"`

	// Failure of an aborted run.
	Error       string `json:"error,omitempty"`
	FailedPage  int    `json:"failed_page,omitempty"`
	ItemsBefore int    `json:"items_before_failure,omitempty"`
}

// NewRecord builds the record of a finished run. inv is ignored when err
// is non-nil.
func NewRecord(cfg *inventory.Configuration, inv *inventory.Inventory, err error, started time.Time) Record {
	rec := Record{
		ID:        uuid.NewString(),
		AccountID: cfg.AccountID(),
		AppID:     cfg.AppID(),
		ContextID: cfg.ContextID(),
		Language:  cfg.Language(),
		FetchAll:  cfg.FetchAll(),
		StartedAt: started.UTC(),
		Duration:  time.Since(started).Seconds(),
	}

	if err != nil {
		rec.Error = err.Error()
		var respErr *inventory.ResponseError
		if errors.As(err, &respErr) {
			rec.FailedPage = respErr.Page
			rec.ItemsBefore = respErr.ItemsFetched
		}
		return rec
	}

	if inv != nil {
		rec.Pages = inv.Pages()
		rec.Items = inv.Len()
		rec.Dropped = inv.Dropped()
		rec.TotalCount = inv.TotalCount()
		rec.MoreItems = inv.MoreItems()
		rec.LastAsset = inv.LastAssetID()
	}
	return rec
}

// Failed reports whether the run was aborted.
func (r Record) Failed() bool {
	return r.Error != ""
}
