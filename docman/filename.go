package docman

import (
	"fmt"
	"strings"
)

// dwpPrefix is stripped from event types before they appear in filenames.
const dwpPrefix = "dwp"

// Filename derives the stored filename for a correspondence document:
// "<eventType> <sentOn>.pdf" with the event type normalized.
func Filename(eventType, sentOn string) string {
	return fmt.Sprintf("%s %s.pdf", NormalizeEventType(eventType), sentOn)
}

// NormalizeEventType strips a leading "dwp" token and lower-cases the letter
// that follows it, so "dwpUploadResponse" becomes "uploadResponse". Event
// types without the prefix are returned unchanged.
func NormalizeEventType(eventType string) string {
	if !strings.HasPrefix(eventType, dwpPrefix) || len(eventType) == len(dwpPrefix) {
		return eventType
	}
	rest := eventType[len(dwpPrefix):]
	return strings.ToLower(rest[:1]) + rest[1:]
}
