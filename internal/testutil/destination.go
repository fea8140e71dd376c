package testutil

import (
	"tsr-go/internal/destination"
)

// NewTestDestination creates a new in-memory destination for testing.
func NewTestDestination() *destination.MemoryDestination {
	return destination.NewMemoryDestination("/test/changed")
}
