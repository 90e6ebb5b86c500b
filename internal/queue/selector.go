package queue

import "github.com/bilgisen/skypost/internal/models"

// Selection is the queue item chosen for this run. Recycled marks items
// that have already been posted at least once and are rotating back in.
type Selection struct {
	Item     models.QueueItem
	Recycled bool
}

// SelectNext picks the next item to post. Fresh items (active, never
// posted) win in sheet order. Once every active item has been posted, the
// least-recently-posted active item is recycled, so a finite sheet rotates
// forever. Returns ok=false when there is nothing to post.
func SelectNext(items []models.QueueItem, postedIDs []string) (Selection, bool) {
	var active []models.QueueItem
	for _, it := range items {
		if it.Active {
			active = append(active, it)
		}
	}
	if len(active) == 0 {
		return Selection{}, false
	}

	posted := make(map[string]bool, len(postedIDs))
	for _, id := range postedIDs {
		posted[id] = true
	}

	for _, it := range active {
		if !posted[it.ID] {
			return Selection{Item: it}, true
		}
	}

	// Everything active has been posted. postedIDs is chronological, so
	// the first active id found in it is the least recently posted.
	byID := make(map[string]models.QueueItem, len(active))
	for _, it := range active {
		byID[it.ID] = it
	}
	for _, id := range postedIDs {
		if it, ok := byID[id]; ok {
			return Selection{Item: it, Recycled: true}, true
		}
	}

	// Unreachable given the branch above, but don't fail the run on it.
	return Selection{Item: active[0], Recycled: true}, true
}
