// Package testutil provides testing utilities for the Steam inventory client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines a fixed response for a mock inventory path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockInventory is the content served for one account/app/context. Assets
// are given as classids; every class gets one description unless it is
// listed in Undescribed.
type MockInventory struct {
	Classes     []string
	Undescribed []string

	// ReportedTotal overrides total_inventory_count when non-zero.
	ReportedTotal int
}

// MockSteam is a configurable mock of the community inventory endpoint.
// Requests are served from /inventory/{account}/{app}/{context} and paged
// by count and start_assetid like the real endpoint.
type MockSteam struct {
	server      *httptest.Server
	mu          sync.RWMutex
	inventories map[string]MockInventory
	responses   map[string]MockResponse

	// Tracking
	RequestCount int
	LastRequest  *url.URL
	LastHeader   http.Header
}

// NewMockSteam creates a new mock Steam server.
func NewMockSteam() *MockSteam {
	mock := &MockSteam{
		inventories: make(map[string]MockInventory),
		responses:   make(map[string]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequest = r.URL
		mock.LastHeader = r.Header.Clone()
		resp, fixed := mock.responses[r.URL.Path]
		inv, known := mock.inventories[r.URL.Path]
		mock.mu.Unlock()

		switch {
		case fixed:
			writeFixed(w, resp)
		case known:
			mock.servePage(w, r, inv)
		default:
			// Private and missing inventories answer 403 with a null body.
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("null"))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockSteam) URL() string {
	return m.server.URL
}

// BaseURL returns the inventory base URL to configure a client with.
func (m *MockSteam) BaseURL() string {
	return m.server.URL + "/inventory/"
}

// Close shuts down the mock server.
func (m *MockSteam) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSteam) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequest = nil
	m.LastHeader = nil
}

// InventoryPath returns the request path for an inventory.
func InventoryPath(accountID, appID, contextID string) string {
	return fmt.Sprintf("/inventory/%s/%s/%s", accountID, appID, contextID)
}

// SetInventory configures the content of an inventory.
func (m *MockSteam) SetInventory(accountID, appID, contextID string, inv MockInventory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inventories[InventoryPath(accountID, appID, contextID)] = inv
}

// SetResponse makes an inventory path answer with a fixed response.
func (m *MockSteam) SetResponse(accountID, appID, contextID string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[InventoryPath(accountID, appID, contextID)] = resp
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSteam) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastRequest returns the URL of the most recent request.
func (m *MockSteam) GetLastRequest() *url.URL {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequest
}

// GetLastHeader returns the headers of the most recent request.
func (m *MockSteam) GetLastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastHeader
}

// AssetID returns the asset id the mock assigns to the asset at index i.
func AssetID(i int) string {
	return strconv.Itoa(1000 + i)
}

func (m *MockSteam) servePage(w http.ResponseWriter, r *http.Request, inv MockInventory) {
	query := r.URL.Query()

	count, err := strconv.Atoi(query.Get("count"))
	if err != nil || count <= 0 {
		count = 75
	}

	start := 0
	if cursor := query.Get("start_assetid"); cursor != "" {
		for i := range inv.Classes {
			if AssetID(i) == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + count
	if end > len(inv.Classes) {
		end = len(inv.Classes)
	}

	undescribed := make(map[string]bool, len(inv.Undescribed))
	for _, c := range inv.Undescribed {
		undescribed[c] = true
	}

	appID, contextID := pathIDs(r.URL.Path)
	assets := make([]map[string]any, 0, end-start)
	descriptions := make([]map[string]any, 0)
	seen := make(map[string]bool)
	for i := start; i < end; i++ {
		classID := inv.Classes[i]
		assets = append(assets, map[string]any{
			"appid":      appID,
			"contextid":  contextID,
			"assetid":    AssetID(i),
			"classid":    classID,
			"instanceid": "0",
			"amount":     "1",
		})
		if seen[classID] || undescribed[classID] {
			continue
		}
		seen[classID] = true
		descriptions = append(descriptions, mockDescription(appID, classID, query.Get("l")))
	}

	total := len(inv.Classes)
	if inv.ReportedTotal != 0 {
		total = inv.ReportedTotal
	}

	body := map[string]any{
		"assets":                assets,
		"descriptions":          descriptions,
		"total_inventory_count": total,
		"success":               1,
		"rwgrsn":                -2,
	}
	// last_assetid is only sent while more items remain.
	if end < len(inv.Classes) {
		body["more_items"] = 1
		body["last_assetid"] = AssetID(end - 1)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func mockDescription(appID int, classID, lang string) map[string]any {
	return map[string]any{
		"appid":            appID,
		"classid":          classID,
		"instanceid":       "0",
		"currency":         0,
		"icon_url":         "icon-" + classID,
		"icon_url_large":   "icon-large-" + classID,
		"name":             "Item " + classID,
		"market_hash_name": "Item " + classID + " (" + lang + ")",
		"market_name":      "Item " + classID,
		"name_color":       "D2D2D2",
		"type":             "Mock Item",
		"tradable":         1,
		"marketable":       1,
		"commodity":        0,
		"descriptions":     []map[string]string{{"type": "html", "value": "Mock description"}},
		"tags": []map[string]string{
			{"category": "Type", "internal_name": "Mock", "localized_category_name": "Type", "localized_tag_name": "Mock"},
		},
	}
}

func pathIDs(path string) (int, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 4 {
		return 0, ""
	}
	appID, _ := strconv.Atoi(parts[2])
	return appID, parts[3]
}

func writeFixed(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response, which is
// how the endpoint answers when requests come too fast.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       "null",
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       "<html><body>Internal Server Error</body></html>",
		Headers:    map[string]string{"Content-Type": "text/html"},
	}
}

// NewUnsuccessfulResponse creates a 200 response whose success flag is off.
func NewUnsuccessfulResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"success":false,"error":"EYldRefreshAppIfNecessary failed with EResult 55"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}
