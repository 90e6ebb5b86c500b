package models

import "time"

// BotState is the only mutable, persisted document. posted_ids is
// append-only and defines both duplicate membership and recycle order; the
// two recent_* lists are bounded FIFO histories, most recent last.
type BotState struct {
	PostedIDs        []string  `json:"posted_ids"`
	RecentTextHashes []string  `json:"recent_text_hashes"`
	RecentImageIDs   []string  `json:"recent_image_ids"`
	PostedTodayUTC   string    `json:"posted_today_utc"`
	PostedTodayCount int       `json:"posted_today_count"`
	LastPostedAt     time.Time `json:"last_posted_at,omitempty"`
}
