package inventory

// ImageBaseURL is the CDN prefix for economy item icons.
const ImageBaseURL = "https://steamcommunity-a.akamaihd.net/economy/image/"

// Item is one asset joined with its description.
type Item struct {
	AppID      string `json:"appid"`
	ContextID  string `json:"contextid"`
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
	Amount     string `json:"amount"`

	Currency        int    `json:"currency"`
	IconURL         string `json:"icon_url"`
	IconURLLarge    string `json:"icon_url_large,omitempty"`
	Name            string `json:"name"`
	MarketHashName  string `json:"market_hash_name"`
	MarketName      string `json:"market_name"`
	NameColor       string `json:"name_color,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	Type            string `json:"type"`
	Tradable        bool   `json:"tradable"`
	Marketable      bool   `json:"marketable"`
	Commodity       bool   `json:"commodity"`

	MarketTradableRestriction   int `json:"market_tradable_restriction"`
	MarketMarketableRestriction int `json:"market_marketable_restriction"`

	Actions       []Action          `json:"actions,omitempty"`
	MarketActions []Action          `json:"market_actions,omitempty"`
	Descriptions  []DescriptionLine `json:"descriptions,omitempty"`
	Tags          []Tag             `json:"tags,omitempty"`
}

// NewItem assembles an Item from an asset and its description. Slices are
// copied so the item does not alias the page it came from.
func NewItem(a Asset, d Description) Item {
	return Item{
		AppID:      a.AppID,
		ContextID:  a.ContextID,
		AssetID:    a.AssetID,
		ClassID:    a.ClassID,
		InstanceID: a.InstanceID,
		Amount:     a.Amount,

		Currency:        d.Currency,
		IconURL:         d.IconURL,
		IconURLLarge:    d.IconURLLarge,
		Name:            d.Name,
		MarketHashName:  d.MarketHashName,
		MarketName:      d.MarketName,
		NameColor:       d.NameColor,
		BackgroundColor: d.BackgroundColor,
		Type:            d.Type,
		Tradable:        d.Tradable,
		Marketable:      d.Marketable,
		Commodity:       d.Commodity,

		MarketTradableRestriction:   d.MarketTradableRestriction,
		MarketMarketableRestriction: d.MarketMarketableRestriction,

		Actions:       cloneSlice(d.Actions),
		MarketActions: cloneSlice(d.MarketActions),
		Descriptions:  cloneSlice(d.Lines),
		Tags:          cloneSlice(d.Tags),
	}
}

// ImageURL returns the URL of the standard icon.
func (i Item) ImageURL() string {
	return ImageBaseURL + i.IconURL + "/"
}

// LargeImageURL returns the URL of the large icon, falling back to the
// standard icon when the description has none.
func (i Item) LargeImageURL() string {
	if i.IconURLLarge == "" {
		return i.ImageURL()
	}
	return ImageBaseURL + i.IconURLLarge + "/"
}

// Tag returns the first tag in category.
func (i Item) Tag(category string) (Tag, bool) {
	for _, t := range i.Tags {
		if t.Category == category {
			return t, true
		}
	}
	return Tag{}, false
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
