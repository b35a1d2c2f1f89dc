package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

// pageBody builds a response body in the endpoint's wire format. Assets are
// given as classids; asset ids are derived from the classid and position.
type pageBody struct {
	success     any
	total       int
	moreItems   bool
	lastAssetID string
	assets      []string
	classes     []string
}

func (p pageBody) bytes(t *testing.T) []byte {
	t.Helper()

	assets := make([]map[string]any, 0, len(p.assets))
	for i, classID := range p.assets {
		assets = append(assets, map[string]any{
			"appid":      730,
			"contextid":  "2",
			"assetid":    fmt.Sprintf("%s%03d", classID, i),
			"classid":    classID,
			"instanceid": "0",
			"amount":     "1",
		})
	}

	descriptions := make([]map[string]any, 0, len(p.classes))
	for i, classID := range p.classes {
		descriptions = append(descriptions, map[string]any{
			"appid":            730,
			"classid":          classID,
			"instanceid":       "0",
			"currency":         0,
			"icon_url":         "icon-" + classID,
			"name":             fmt.Sprintf("Item %s #%d", classID, i),
			"market_hash_name": "hash-" + classID,
			"market_name":      "market-" + classID,
			"type":             "Rifle",
			"tradable":         1,
			"marketable":       1,
			"commodity":        0,
		})
	}

	body := map[string]any{
		"assets":                assets,
		"descriptions":          descriptions,
		"total_inventory_count": p.total,
		"success":               p.success,
		"rwgrsn":                -2,
	}
	if p.moreItems {
		body["more_items"] = 1
	}
	if p.lastAssetID != "" {
		body["last_assetid"] = p.lastAssetID
	}

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	return data
}

// fakePages serves scripted responses and records every request.
type fakePages struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  []PageRequest
}

type fakeResponse struct {
	body []byte
	err  error
}

func (f *fakePages) FetchPage(_ context.Context, req PageRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("unexpected request %d", len(f.requests))
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp.body, resp.err
}

func (f *fakePages) calls() []PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PageRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func repeat(classID string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = classID
	}
	return out
}
