/*
store.go - Collaborator store contracts

PURPOSE:
  The engine consumes two external stores and nothing else. Both move whole
  records synchronously; the engine never performs partial updates at the
  store boundary.

SNAPSHOT CONTRACT:
  RequestStore always trades in the full collection: LoadAll returns the
  entire list, SaveAll replaces it atomically. A mutation is therefore a
  whole-collection replace - the collection after SaveAll reflects exactly
  that mutation applied to the loaded snapshot, with no partial-write states
  observable to the caller.

IMPLEMENTATIONS:
  - engine/store: in-memory (testing/dev)
  - store/sqlite: durable SQLite

SEE ALSO:
  - lifecycle.go: The controller operating on these contracts
*/
package engine

import "context"

// RequestStore persists the employee's request collection as one value.
type RequestStore interface {
	// LoadAll returns the full collection, newest first.
	LoadAll(ctx context.Context) ([]Request, error)

	// SaveAll replaces the full collection atomically.
	SaveAll(ctx context.Context, requests []Request) error
}

// ProfileStore is the credential/profile store. The engine reads profiles;
// the account flows write them.
type ProfileStore interface {
	// FindByUsername looks a profile up case-insensitively.
	// Returns (nil, nil) when absent.
	FindByUsername(ctx context.Context, username string) (*EmployeeProfile, error)

	// Put inserts or replaces a profile keyed by username.
	Put(ctx context.Context, profile EmployeeProfile) error

	// ListAll returns every registered profile.
	ListAll(ctx context.Context) ([]EmployeeProfile, error)

	// Verify checks credentials by exact match and returns the profile on
	// success, (nil, nil) on mismatch. Plaintext comparison is a retained
	// weakness of the original design; see DESIGN.md.
	Verify(ctx context.Context, username, password string) (*EmployeeProfile, error)
}
