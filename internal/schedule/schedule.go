package schedule

import (
	"fmt"
	"math/rand"
	"time"
)

// Window is a quiet-hours window in UTC. It may wrap past midnight, e.g.
// 23:00-07:00.
type Window struct {
	startMin int
	endMin   int
	set      bool
}

// ParseWindow parses two HH:MM boundaries. Two empty strings disable the
// window.
func ParseWindow(start, end string) (Window, error) {
	if start == "" && end == "" {
		return Window{}, nil
	}
	s, err := parseHHMM(start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window start: %w", err)
	}
	e, err := parseHHMM(end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window end: %w", err)
	}
	return Window{startMin: s, endMin: e, set: true}, nil
}

// Contains reports whether now (taken in UTC) falls inside the window.
// The range is [start, end); a wrapped window means >= start OR < end.
func (w Window) Contains(now time.Time) bool {
	if !w.set || w.startMin == w.endMin {
		return false
	}
	min := now.UTC().Hour()*60 + now.UTC().Minute()
	if w.startMin < w.endMin {
		return min >= w.startMin && min < w.endMin
	}
	return min >= w.startMin || min < w.endMin
}

func parseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Jitter returns a random delay up to ceilingMinutes. Zero ceiling means no
// delay.
func Jitter(ceilingMinutes int) time.Duration {
	if ceilingMinutes <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(ceilingMinutes) * int64(time.Minute)))
}
