package services

import "strings"

// cleanText trims v; blank values become nil so they are stored as NULL.
func cleanText(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanTexts(fields ...**string) {
	for _, f := range fields {
		*f = cleanText(*f)
	}
}
