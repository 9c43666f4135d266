// ABOUTME: Tag counter contract for the external tag-frequency subsystem
// ABOUTME: Called once per added or removed tag when a record's tag set changes

package interfaces

import "context"

// TagCounters maintains aggregate tag frequencies outside the core. The
// counters share the record tag-set invariant: every call corresponds to
// exactly one tag added to or removed from a canonical record.
type TagCounters interface {
	// Increment bumps the aggregate count for a tag.
	Increment(ctx context.Context, tag string) error

	// Decrement lowers the aggregate count for a tag.
	Decrement(ctx context.Context, tag string) error
}
