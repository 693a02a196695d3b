package services

import (
	"strings"

	"github.com/mg3/promag-api/types"
)

// closedKeywords mark a free-text status as finished when any of them
// appears in it.
var closedKeywords = []string{"approved", "closed", "complete", "completed", "resolved", "answered"}

// NormalizeLifecycle derives the two-state lifecycle. A valid explicit value
// wins; otherwise the free-text status is scanned for closing keywords, and
// anything else, including an empty status, is opened.
func NormalizeLifecycle(explicit, freeText string) types.Lifecycle {
	switch types.Lifecycle(strings.ToLower(strings.TrimSpace(explicit))) {
	case types.LifecycleOpened:
		return types.LifecycleOpened
	case types.LifecycleClosed:
		return types.LifecycleClosed
	}

	text := strings.ToLower(strings.TrimSpace(freeText))
	if text == "" {
		return types.LifecycleOpened
	}
	for _, kw := range closedKeywords {
		if strings.Contains(text, kw) {
			return types.LifecycleClosed
		}
	}
	return types.LifecycleOpened
}
