package ports

import "context"

// ReferenceLookup defines the primary structured lookup against the reference
// site. LookupExact returns the canonical page URL for an exact name match,
// ErrAuthRequired when the API demands credentials, or ErrNotFound when the
// name has no match. Both failures trigger the fallback strategy without a
// retry of the primary call.
type ReferenceLookup interface {
	LookupExact(ctx context.Context, name string) (string, error)
}
