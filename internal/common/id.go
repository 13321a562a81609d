package common

import (
	"github.com/google/uuid"
)

// NewArticleID generates a unique article ID with the "art_" prefix
// Format: art_<uuid>
func NewArticleID() string {
	return "art_" + uuid.New().String()
}

// NewEventID generates a unique economic event ID with the "evt_" prefix
// Format: evt_<uuid>
func NewEventID() string {
	return "evt_" + uuid.New().String()
}
