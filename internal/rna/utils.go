package rna

import "github.com/google/uuid"

// NewRandomID returns a random identifier for environments and notifiers
// created without an explicit name.
func NewRandomID() string {
	return uuid.NewString()
}
