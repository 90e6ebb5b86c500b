package models

// MaxImageBytes is the upload ceiling enforced by the publishing platform.
const MaxImageBytes = 1_000_000

// ImageAsset describes one preprocessed image in the catalog. The catalog is
// produced offline by the resize/re-encode batch step; the bot only reads it.
type ImageAsset struct {
	ID         string   `json:"id"`
	Path       string   `json:"path"`
	Tags       []string `json:"tags"`
	DefaultAlt string   `json:"default_alt"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Bytes      int64    `json:"bytes"`
	Mime       string   `json:"mime"`
}

// Eligible reports whether the asset can be uploaded at all.
func (a ImageAsset) Eligible() bool {
	return a.Bytes > 0 && a.Bytes <= MaxImageBytes
}
