package inventory

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sternrassler/steam-inventory-client/pkg/language"
	"github.com/Sternrassler/steam-inventory-client/pkg/steamid"
)

// Configuration defaults and limits.
const (
	DefaultAppID     = "730"
	DefaultContextID = "2"
	DefaultPageSize  = 75

	// MaxPageSize is the largest page the endpoint serves. Fetch-all mode
	// always requests pages of this size.
	MaxPageSize = 5000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// proxySchemes are the proxy URL schemes net/http can dial through.
var proxySchemes = map[string]bool{
	"http":    true,
	"https":   true,
	"socks5":  true,
	"socks5h": true,
}

// Options is the input for NewConfiguration. Only AccountID is required;
// every other field falls back to its documented default when empty.
type Options struct {
	// AccountID is a SteamID64, a 32-bit account id, a STEAM_X:Y:Z or
	// [U:1:N] id, or a community profile URL.
	AccountID string

	// AppID scopes the inventory to one game. Default "730".
	AppID string

	// ContextID scopes the inventory within the game. Default "2".
	ContextID string

	// Language is one of language.All(), case-insensitive. Default "english".
	Language string

	// PageSize is the number of assets per request. Default "75", capped
	// at 5000.
	PageSize string

	// Cursor is the asset id to start after. Empty starts at the beginning.
	Cursor string

	// ProxyURL routes requests through a proxy, e.g. "http://10.0.0.1:3128"
	// or "10.0.0.1:3128".
	ProxyURL string

	// FetchAll pages through the whole inventory instead of returning the
	// first page.
	FetchAll bool
}

func (o Options) configuration() (*Configuration, error) {
	return NewConfiguration(o)
}

// Source is anything a Fetcher can take its configuration from:
// a *Configuration or an Options value.
type Source interface {
	configuration() (*Configuration, error)
}

// Configuration holds the validated parameters of an inventory request.
// Numeric identifiers are kept as strings so 64-bit asset ids round-trip
// without precision loss.
type Configuration struct {
	accountID string
	appID     string
	contextID string
	language  string
	pageSize  int
	cursor    string
	proxy     string
	fetchAll  bool
}

// NewConfiguration validates opts and returns a Configuration.
// Malformed numeric fields degrade to their defaults; only a missing or
// invalid account id and an unknown language are errors.
func NewConfiguration(opts Options) (*Configuration, error) {
	if strings.TrimSpace(opts.AccountID) == "" {
		return nil, ErrMissingIdentifier
	}

	c := &Configuration{
		appID:     DefaultAppID,
		contextID: DefaultContextID,
		language:  language.Default,
		pageSize:  DefaultPageSize,
	}

	if err := c.SetAccountID(opts.AccountID); err != nil {
		return nil, err
	}
	if opts.AppID != "" {
		c.SetAppID(opts.AppID)
	}
	if opts.ContextID != "" {
		c.SetContextID(opts.ContextID)
	}
	if opts.Language != "" {
		if err := c.SetLanguage(opts.Language); err != nil {
			return nil, err
		}
	}
	c.fetchAll = opts.FetchAll
	if opts.PageSize != "" || opts.FetchAll {
		c.SetPageSize(opts.PageSize)
	}
	if opts.Cursor != "" {
		c.SetCursor(opts.Cursor)
	}
	if opts.ProxyURL != "" {
		c.SetProxy(opts.ProxyURL)
	}

	return c, nil
}

func (c *Configuration) configuration() (*Configuration, error) {
	if c == nil {
		return nil, ErrNoConfiguration
	}
	return c, nil
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	clone := *c
	return &clone
}

// AccountID returns the canonical SteamID64.
func (c *Configuration) AccountID() string { return c.accountID }

// AppID returns the application id.
func (c *Configuration) AppID() string { return c.appID }

// ContextID returns the context id.
func (c *Configuration) ContextID() string { return c.contextID }

// Language returns the lowercase language code.
func (c *Configuration) Language() string { return c.language }

// PageSize returns the effective page size.
func (c *Configuration) PageSize() int { return c.pageSize }

// Cursor returns the start asset id, or "" when starting from the beginning.
func (c *Configuration) Cursor() string { return c.cursor }

// Proxy returns the normalized proxy URL, or "" when none is applied.
func (c *Configuration) Proxy() string { return c.proxy }

// FetchAll reports whether the whole inventory is fetched.
func (c *Configuration) FetchAll() bool { return c.fetchAll }

// SetAccountID normalizes id into a SteamID64.
func (c *Configuration) SetAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingIdentifier
	}
	normalized, err := steamid.Normalize(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}
	c.accountID = normalized.String()
	return nil
}

// SetAppID sets the application id; non-numeric input resets it to
// DefaultAppID.
func (c *Configuration) SetAppID(appID string) {
	if !isNumber(appID) {
		appID = DefaultAppID
	}
	c.appID = appID
}

// SetContextID sets the context id; non-numeric input resets it to
// DefaultContextID.
func (c *Configuration) SetContextID(contextID string) {
	if !isNumber(contextID) {
		contextID = DefaultContextID
	}
	c.contextID = contextID
}

// SetLanguage sets the language, stored lowercase.
func (c *Configuration) SetLanguage(lang string) error {
	if !language.IsValid(lang) {
		return &LanguageError{Language: lang, Valid: language.All()}
	}
	c.language = strings.ToLower(lang)
	return nil
}

// SetPageSize sets the page size. Malformed or non-positive input resets it
// to DefaultPageSize; values above MaxPageSize, or any value while FetchAll
// is on, become MaxPageSize.
func (c *Configuration) SetPageSize(size string) {
	n := DefaultPageSize
	if isNumber(size) {
		if v, err := strconv.Atoi(size); err == nil && v > 0 {
			n = v
		} else if err != nil {
			// Too large for int: still a valid number, clamp below.
			n = MaxPageSize + 1
		}
	}
	if n > MaxPageSize || c.fetchAll {
		n = MaxPageSize
	}
	c.pageSize = n
}

// SetCursor sets the start asset id. Empty or non-numeric input clears it.
func (c *Configuration) SetCursor(assetID string) {
	if !isNumber(assetID) {
		assetID = ""
	}
	c.cursor = assetID
}

// SetProxy applies a proxy if proxy parses as a proxy URL with a host, or
// as a bare host:port. Anything else leaves the current proxy untouched.
func (c *Configuration) SetProxy(proxy string) {
	if normalized, ok := NormalizeProxy(proxy); ok {
		c.proxy = normalized
	}
}

// SetFetchAll toggles fetch-all mode and re-applies the page size clamp.
func (c *Configuration) SetFetchAll(all bool) {
	c.fetchAll = all
	if all {
		c.pageSize = MaxPageSize
	}
}

// PageRequest returns the request parameters for the next page.
func (c *Configuration) PageRequest() PageRequest {
	return PageRequest{
		AccountID: c.accountID,
		AppID:     c.appID,
		ContextID: c.contextID,
		Language:  c.language,
		Count:     c.pageSize,
		Cursor:    c.cursor,
		Proxy:     c.proxy,
	}
}

func isNumber(s string) bool {
	return validate.Var(s, "required,number") == nil
}

// NormalizeProxy returns the canonical form of a proxy address, or false
// when it is not a usable http, https or socks5 proxy. A bare host:port is
// read as an http proxy.
func NormalizeProxy(proxy string) (string, bool) {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return "", false
	}

	if !strings.Contains(proxy, "://") {
		if validate.Var(proxy, "hostname_port") != nil {
			return "", false
		}
		proxy = "http://" + proxy
	}

	if validate.Var(proxy, "url") != nil {
		return "", false
	}
	u, err := url.Parse(proxy)
	if err != nil || u.Hostname() == "" || !proxySchemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return u.String(), true
}
