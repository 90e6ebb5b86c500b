package images

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/bilgisen/skypost/internal/models"
)

const (
	// recencyPenalty pushes recently-used images down the ranking without
	// disqualifying them.
	recencyPenalty = 0.5
	// jitterCeiling keeps the random tiebreak well below one overlap unit.
	jitterCeiling = 0.1
	// hardMaxImages is the platform ceiling on attachments per post.
	hardMaxImages = 4
)

// Select picks the images to attach to a post.
//
// When the queue item carries explicit image ids they are resolved in the
// caller's order with no scoring; unknown ids are dropped silently. Otherwise
// every eligible image is scored by tag overlap, penalized if recently used,
// and a small random jitter breaks exact ties so equal images rotate.
func Select(catalog []models.ImageAsset, tags, explicitIDs []string, defaultPerPost, maxPerPost int, recentIDs []string) []models.ImageAsset {
	eligible := make([]models.ImageAsset, 0, len(catalog))
	for _, a := range catalog {
		if a.Eligible() {
			eligible = append(eligible, a)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if len(explicitIDs) > 0 {
		return resolveExplicit(eligible, explicitIDs)
	}

	recent := make(map[string]bool, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = true
	}

	type scored struct {
		asset models.ImageAsset
		score float64
	}
	ranked := make([]scored, 0, len(eligible))
	for _, a := range eligible {
		score := float64(tagOverlap(a.Tags, tags))
		if recent[a.ID] {
			score -= recencyPenalty
		}
		score += rand.Float64() * jitterCeiling
		ranked = append(ranked, scored{asset: a, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := clamp(defaultPerPost, 1, maxPerPost)
	if n > hardMaxImages {
		n = hardMaxImages
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]models.ImageAsset, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.asset)
	}
	return out
}

func resolveExplicit(eligible []models.ImageAsset, ids []string) []models.ImageAsset {
	byID := make(map[string]models.ImageAsset, len(eligible))
	for _, a := range eligible {
		byID[a.ID] = a
	}
	out := make([]models.ImageAsset, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
		if len(out) == hardMaxImages {
			break
		}
	}
	return out
}

// tagOverlap counts case-insensitive tag matches.
func tagOverlap(imageTags, wantTags []string) int {
	want := make(map[string]bool, len(wantTags))
	for _, t := range wantTags {
		want[strings.ToLower(t)] = true
	}
	n := 0
	for _, t := range imageTags {
		if want[strings.ToLower(t)] {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
