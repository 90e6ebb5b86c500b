package safety

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Filter matches candidate text against a newline-delimited blocklist.
// The list is loaded lazily on first use and cached for the process
// lifetime; Reset forces a reload, which tests rely on.
type Filter struct {
	path string

	mu      sync.Mutex
	loaded  bool
	phrases []string
}

func NewFilter(path string) *Filter {
	return &Filter{path: path}
}

// Check reports whether text is safe to post. When unsafe, the first
// blocked phrase found is returned. Matching is a case-insensitive
// substring test.
func (f *Filter) Check(text string) (safe bool, match string, err error) {
	phrases, err := f.load()
	if err != nil {
		return false, "", err
	}
	lowered := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return false, p, nil
		}
	}
	return true, "", nil
}

// Reset drops the cached blocklist so the next Check reloads it.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = false
	f.phrases = nil
}

func (f *Filter) load() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.phrases, nil
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		// No blocklist means no restrictions.
		f.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist %s: %w", f.path, err)
	}

	var phrases []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, strings.ToLower(line))
	}
	f.phrases = phrases
	f.loaded = true
	return phrases, nil
}
