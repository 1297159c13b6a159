package filter

import (
	"context"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// CodeDuplicate is returned when content with the same file name and size is
// already in the library.
const CodeDuplicate = "duplicate"

// DuplicateFilter rejects content whose (file name, size) key matches a
// record already in the library. Names are compared exactly.
type DuplicateFilter struct{}

// NewDuplicateFilter creates a new duplicate filter.
func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{}
}

// Name returns the filter name.
func (f *DuplicateFilter) Name() string {
	return "duplicate_filter"
}

// Description returns the filter description.
func (f *DuplicateFilter) Description() string {
	return "Rejects a file whose name and byte size match a video already in the library"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateFilter) ReturnCodes() []string {
	return []string{CodeDuplicate}
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

// Check checks if the candidate is a duplicate.
func (f *DuplicateFilter) Check(ctx context.Context, candidate video.Content, existing []video.Record) Result {
	key := candidate.Key()
	for i := range existing {
		if existing[i].Key() == key {
			return Reject(CodeDuplicate)
		}
	}
	return Accept()
}
