package models

// QueueItem is one candidate post loaded from the content sheet. Items are
// read-only at runtime; identity is the ID, which doubles as the record key
// used for idempotent publishing.
type QueueItem struct {
	ID       string   `json:"id"`
	Topic    string   `json:"topic"`
	Link     string   `json:"link,omitempty"`
	Tags     []string `json:"tags"`
	CTA      string   `json:"cta,omitempty"`
	Active   bool     `json:"active"`
	ImageIDs []string `json:"image_ids,omitempty"`
}
