// Package settings implements the shared cache-or-fetch layer over the
// settings store. Storefront consumers read through a single in-memory
// cache instead of each issuing its own ad hoc fetch, and every
// recognized key has a central default so callers always have a value
// to render before the remote one arrives.
package settings

import "errors"

// Recognized settings keys. The key namespace is flat; related keys are
// distinguished only by naming convention (video_1_url, video_2_url).
const (
	KeySiteLogo       = "site_logo"
	KeyHeroTitle      = "hero_title"
	KeyWhatsAppNumber = "whatsapp_number"
	KeyInstagramURL   = "instagram_url"
	KeyFacebookURL    = "facebook_url"
	KeyTikTokURL      = "tiktok_url"
	KeyStoreAddress   = "store_address"
	KeyStoreHours     = "store_hours"
	KeyVideo1URL      = "video_1_url"
	KeyVideo2URL      = "video_2_url"
)

// ErrUnknownKey is returned when a key outside the recognized set is
// requested. Unrecognized keys are a detectable condition, not silently
// accepted.
var ErrUnknownKey = errors.New("unknown settings key")

// Default describes a recognized key with its fallback value.
type Default struct {
	Key         string
	Value       string
	Type        string
	Description string
}

// Defaults returns the recognized configuration keys with their default
// values. This is the single source of truth for the settings schema.
func Defaults() []Default {
	return []Default{
		{Key: KeySiteLogo, Value: "", Type: "url", Description: "Site logo image URL"},
		{Key: KeyHeroTitle, Value: "Sastrería profesional: trabajo hecho con amor", Type: "text", Description: "Hero banner title"},
		{Key: KeyWhatsAppNumber, Value: "", Type: "text", Description: "WhatsApp number with country code, no plus sign"},
		{Key: KeyInstagramURL, Value: "", Type: "url", Description: "Instagram profile URL"},
		{Key: KeyFacebookURL, Value: "", Type: "url", Description: "Facebook page URL"},
		{Key: KeyTikTokURL, Value: "", Type: "url", Description: "TikTok profile URL"},
		{Key: KeyStoreAddress, Value: "", Type: "text", Description: "Street address of the boutique"},
		{Key: KeyStoreHours, Value: "", Type: "text", Description: "Opening hours"},
		{Key: KeyVideo1URL, Value: "", Type: "url", Description: "First showcase video URL"},
		{Key: KeyVideo2URL, Value: "", Type: "url", Description: "Second showcase video URL"},
	}
}

// DefaultValue returns the default value for a recognized key.
func DefaultValue(key string) (string, bool) {
	for _, d := range Defaults() {
		if d.Key == key {
			return d.Value, true
		}
	}

	return "", false
}

// IsRecognized reports whether the key belongs to the declared schema.
func IsRecognized(key string) bool {
	_, ok := DefaultValue(key)
	return ok
}
