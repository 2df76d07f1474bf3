// Package artifact provides the registry of stored conversion results.
//
// Every successful conversion or compression produces one Artifact,
// registered under a freshly minted id. The id doubles as the retrieval
// capability: whoever holds it can fetch the bytes, nobody can guess it.
package artifact

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the id is unknown, malformed, or expired.
// All three cases are deliberately indistinguishable to callers.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a stored conversion result retrievable by id.
type Artifact struct {
	ID        string
	Content   []byte
	MediaType string
	Filename  string
	StoredAt  time.Time
}

// Store is the registry contract. Implementations must support concurrent
// Put and Get, never reuse an id, and never return an id before the
// artifact is fully inserted.
type Store interface {
	// Put registers content under a fresh id and returns it.
	Put(ctx context.Context, content []byte, mediaType, filename string) (string, error)

	// Get resolves an id. Absence of any kind yields ErrNotFound.
	Get(ctx context.Context, id string) (*Artifact, error)

	// Len reports the number of live artifacts, for observability.
	Len(ctx context.Context) (int, error)

	// Close releases backing resources.
	Close() error
}
