package state

import (
	"time"

	"github.com/bilgisen/skypost/internal/models"
)

// Caps bound the two recency histories.
type Caps struct {
	HashHistory  int
	ImageHistory int
}

// PostRecord describes one confirmed publish.
type PostRecord struct {
	ID       string
	TextHash string
	ImageIDs []string
	When     time.Time
}

// EnsureToday resets the daily counter when the stored UTC date differs
// from now's. Pure function, no I/O.
func EnsureToday(st models.BotState, now time.Time) models.BotState {
	today := now.UTC().Format("2006-01-02")
	if st.PostedTodayUTC == today {
		return st
	}
	st.PostedTodayUTC = today
	st.PostedTodayCount = 0
	return st
}

// RecordSuccess appends the publish to the state and trims both recency
// histories to their caps, oldest entries first. Returns a new value;
// persisting it is the caller's job and must only happen after a confirmed
// publish.
func RecordSuccess(st models.BotState, caps Caps, rec PostRecord) models.BotState {
	st.PostedIDs = appendCopy(st.PostedIDs, rec.ID)
	st.RecentTextHashes = trimFront(appendCopy(st.RecentTextHashes, rec.TextHash), caps.HashHistory)
	st.RecentImageIDs = trimFront(appendCopy(st.RecentImageIDs, rec.ImageIDs...), caps.ImageHistory)
	st.PostedTodayCount++
	st.LastPostedAt = rec.When
	return st
}

// appendCopy appends without aliasing the input slice.
func appendCopy(in []string, vals ...string) []string {
	out := make([]string, 0, len(in)+len(vals))
	out = append(out, in...)
	return append(out, vals...)
}

func trimFront(in []string, limit int) []string {
	if limit <= 0 || len(in) <= limit {
		return in
	}
	return in[len(in)-limit:]
}
