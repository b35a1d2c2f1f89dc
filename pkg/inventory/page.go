package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PageRequest holds the parameters of a single inventory page request.
type PageRequest struct {
	AccountID string
	AppID     string
	ContextID string
	Language  string
	Count     int

	// Cursor is sent as start_assetid; omitted when empty.
	Cursor string

	// Proxy is applied to this request only; empty means direct.
	Proxy string
}

// PageFetcher is the transport the engine pulls raw pages from.
// Implementations return the response body, or an error for transport
// failures (timeouts, connection errors, non-2xx statuses).
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) ([]byte, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, req PageRequest) ([]byte, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, req PageRequest) ([]byte, error) {
	return f(ctx, req)
}

// Page is one decoded response of the inventory endpoint.
type Page struct {
	Success      bool
	TotalCount   int
	MoreItems    bool
	LastAssetID  string
	Assets       []Asset
	Descriptions []Description
}

// Asset is a single inventory entry.
type Asset struct {
	AppID      string
	ContextID  string
	AssetID    string
	ClassID    string
	InstanceID string
	Amount     string
}

// Description is the display metadata shared by all assets of one class.
type Description struct {
	AppID                       string
	ClassID                     string
	InstanceID                  string
	Currency                    int
	IconURL                     string
	IconURLLarge                string
	Name                        string
	MarketHashName              string
	MarketName                  string
	NameColor                   string
	BackgroundColor             string
	Type                        string
	Tradable                    bool
	Marketable                  bool
	Commodity                   bool
	MarketTradableRestriction   int
	MarketMarketableRestriction int
	Actions                     []Action
	MarketActions               []Action
	Lines                       []DescriptionLine
	Tags                        []Tag
}

// Action is an in-game or market link attached to a description.
type Action struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// DescriptionLine is one line of an item's descriptive text.
type DescriptionLine struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// Tag classifies an item within a category such as "Rarity" or "Type".
type Tag struct {
	Category              string `json:"category"`
	InternalName          string `json:"internal_name"`
	LocalizedCategoryName string `json:"localized_category_name"`
	LocalizedTagName      string `json:"localized_tag_name"`
	Color                 string `json:"color,omitempty"`
}

// ParsePage decodes a raw response body. An empty body, which is what a
// failed transport call leaves behind, is an error.
func ParsePage(body []byte) (*Page, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	page := &Page{
		Success:      bool(raw.Success),
		TotalCount:   int(raw.TotalInventoryCount),
		MoreItems:    bool(raw.MoreItems),
		LastAssetID:  string(raw.LastAssetID),
		Assets:       make([]Asset, 0, len(raw.Assets)),
		Descriptions: make([]Description, 0, len(raw.Descriptions)),
	}
	for _, a := range raw.Assets {
		page.Assets = append(page.Assets, a.toAsset())
	}
	for _, d := range raw.Descriptions {
		page.Descriptions = append(page.Descriptions, d.toDescription())
	}
	return page, nil
}

// Validate checks the success flag and that both arrays are non-empty.
// An empty inventory therefore fails validation, like a failed request.
func (p *Page) Validate() error {
	switch {
	case p == nil:
		return &ResponseError{Reason: "no page"}
	case !p.Success:
		return &ResponseError{Reason: "success flag not set"}
	case len(p.Assets) == 0:
		return &ResponseError{Reason: "no assets"}
	case len(p.Descriptions) == 0:
		return &ResponseError{Reason: "no descriptions"}
	}
	return nil
}

// Wire format. Steam mixes numbers, numeric strings and 0/1 booleans for the
// same fields across endpoints, so every scalar is decoded loosely.

type rawPage struct {
	Assets              []rawAsset       `json:"assets"`
	Descriptions        []rawDescription `json:"descriptions"`
	TotalInventoryCount looseInt         `json:"total_inventory_count"`
	Success             looseBool        `json:"success"`
	MoreItems           looseBool        `json:"more_items"`
	LastAssetID         looseString      `json:"last_assetid"`
}

type rawAsset struct {
	AppID      looseString `json:"appid"`
	ContextID  looseString `json:"contextid"`
	AssetID    looseString `json:"assetid"`
	ClassID    looseString `json:"classid"`
	InstanceID looseString `json:"instanceid"`
	Amount     looseString `json:"amount"`
}

func (a rawAsset) toAsset() Asset {
	return Asset{
		AppID:      string(a.AppID),
		ContextID:  string(a.ContextID),
		AssetID:    string(a.AssetID),
		ClassID:    string(a.ClassID),
		InstanceID: string(a.InstanceID),
		Amount:     string(a.Amount),
	}
}

type rawDescription struct {
	AppID                       looseString       `json:"appid"`
	ClassID                     looseString       `json:"classid"`
	InstanceID                  looseString       `json:"instanceid"`
	Currency                    looseInt          `json:"currency"`
	IconURL                     string            `json:"icon_url"`
	IconURLLarge                string            `json:"icon_url_large"`
	Name                        string            `json:"name"`
	MarketHashName              string            `json:"market_hash_name"`
	MarketName                  string            `json:"market_name"`
	NameColor                   string            `json:"name_color"`
	BackgroundColor             string            `json:"background_color"`
	Type                        string            `json:"type"`
	Tradable                    looseBool         `json:"tradable"`
	Marketable                  looseBool         `json:"marketable"`
	Commodity                   looseBool         `json:"commodity"`
	MarketTradableRestriction   looseInt          `json:"market_tradable_restriction"`
	MarketMarketableRestriction looseInt          `json:"market_marketable_restriction"`
	Actions                     []Action          `json:"actions"`
	MarketActions               []Action          `json:"market_actions"`
	Descriptions                []DescriptionLine `json:"descriptions"`
	Tags                        []Tag             `json:"tags"`
}

func (d rawDescription) toDescription() Description {
	return Description{
		AppID:                       string(d.AppID),
		ClassID:                     string(d.ClassID),
		InstanceID:                  string(d.InstanceID),
		Currency:                    int(d.Currency),
		IconURL:                     d.IconURL,
		IconURLLarge:                d.IconURLLarge,
		Name:                        d.Name,
		MarketHashName:              d.MarketHashName,
		MarketName:                  d.MarketName,
		NameColor:                   d.NameColor,
		BackgroundColor:             d.BackgroundColor,
		Type:                        d.Type,
		Tradable:                    bool(d.Tradable),
		Marketable:                  bool(d.Marketable),
		Commodity:                   bool(d.Commodity),
		MarketTradableRestriction:   int(d.MarketTradableRestriction),
		MarketMarketableRestriction: int(d.MarketMarketableRestriction),
		Actions:                     d.Actions,
		MarketActions:               d.MarketActions,
		Lines:                       d.Descriptions,
		Tags:                        d.Tags,
	}
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}

// looseInt accepts a JSON number or a base-10 numeric string. Non-numeric
// strings decode to 0.
type looseInt int

func (i *looseInt) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
	if err != nil {
		*i = 0
		return nil
	}
	*i = looseInt(v)
	return nil
}

// looseBool accepts true/false, 0/1 and their string forms.
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	switch strings.Trim(string(b), `"`) {
	case "true", "1":
		*v = true
	case "false", "0", "":
		*v = false
	default:
		return fmt.Errorf("expected boolean, got %s", b)
	}
	return nil
}

func isNull(b []byte) bool {
	return len(b) == 0 || string(b) == "null"
}
