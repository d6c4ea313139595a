package watcher

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Options configures the file watcher behavior.
type Options struct {
	// Files restricts events to these base names. Empty means every file.
	Files          []string
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 200 * time.Millisecond
	}

	// Default patterns also turn on hidden-file filtering. Explicit patterns,
	// even an empty slice, leave IgnoreHidden as configured.
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			"*.tmp",
			"*.swp",
			"*~",
		}
		o.IgnoreHidden = true
	}
}

// shouldIgnore checks if a path is filtered out.
func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if o.IgnoreHidden && strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}

	for _, pattern := range o.IgnorePatterns {
		matched, err := filepath.Match(pattern, base)
		if err == nil && matched {
			return true
		}
	}

	if len(o.Files) > 0 && !slices.Contains(o.Files, base) {
		return true
	}

	return false
}
