/*
lifecycle.go - Request lifecycle controller

PURPOSE:
  Orchestrates the life of a request record:

    Draft (in-form) --Submit--> Pending --external--> Approved | Rejected
                                   |
                                   +--Edit--> Pending (same id, same createdAt)

  Submit assigns a fresh identity and the current instant, runs the
  applicable rule, and prepends the record to the collection. Edit re-runs
  the rule against the new fields (excluding the record from its own balance
  sum), preserves id and createdAt, and replaces in place. Delete removes by
  identity unconditionally - the 24-hour window gates edits only; any delete
  gating is presentation-layer.

MUTABILITY:
  Editable = WithinEditWindow(createdAt, status)
           OR (Business Trip AND Pending)    <- deliberate carve-out

  Terminal statuses are immutable regardless of elapsed time. The carve-out
  keeps Pending business trips editable past the 24-hour window, reproducing
  a policy decision of the portal.

SEE ALSO:
  - rules.go: Validation and derivation, run on every submit/edit
  - store.go: The snapshot store this controller drives
*/
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Controller drives the request lifecycle against a snapshot store.
// NewID and Now are injectable for tests.
type Controller struct {
	Store RequestStore
	Rules *Rules
	NewID func() string
	Now   func() time.Time
}

func NewController(store RequestStore) *Controller {
	return &Controller{
		Store: store,
		Rules: NewRules(),
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Editable reports whether the owner may still edit a record: inside the
// 24-hour window with a non-terminal status, or a Pending business trip at
// any age.
func (c *Controller) Editable(r Request) bool {
	if WithinEditWindow(r.CreatedAt, r.Status, c.Now()) {
		return true
	}
	return r.Type == FormBusinessTrip && r.Status == StatusPending
}

// Submit validates raw fields and, on success, persists a new Pending record
// with a fresh identity and the current instant. Nothing is persisted on a
// rule failure.
func (c *Controller) Submit(ctx context.Context, in Input, profile *EmployeeProfile) (*Request, error) {
	existing, err := c.Store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	validated, err := c.Rules.Validate(in, RuleContext{
		Profile:  profile,
		Requests: existing,
	})
	if err != nil {
		return nil, err
	}

	validated.ID = c.NewID()
	validated.Status = StatusPending
	validated.CreatedAt = c.Now()

	// Newest first, matching the portal's history ordering.
	updated := append([]Request{*validated}, existing...)
	if err := c.Store.SaveAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}
	return validated, nil
}

// Edit re-validates a record under its original identity. The record keeps
// its id, createdAt, and status; every other field is replaced by the
// validated payload. Fails with ErrNotEditable outside the mutability rules
// and ErrRequestNotFound for unknown ids.
func (c *Controller) Edit(ctx context.Context, id string, in Input, profile *EmployeeProfile) (*Request, error) {
	existing, err := c.Store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	idx := -1
	for i, r := range existing {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrRequestNotFound
	}

	current := existing[idx]
	if !c.Editable(current) {
		return nil, ErrNotEditable
	}

	validated, err := c.Rules.Validate(in, RuleContext{
		Profile:   profile,
		Requests:  existing,
		ExcludeID: id,
	})
	if err != nil {
		return nil, err
	}

	validated.ID = current.ID
	validated.CreatedAt = current.CreatedAt
	validated.Status = current.Status

	existing[idx] = *validated
	if err := c.Store.SaveAll(ctx, existing); err != nil {
		return nil, fmt.Errorf("save requests: %w", err)
	}
	return validated, nil
}

// Delete removes a record by identity. Removal is unconditional: it ignores
// the edit window and terminal statuses, and an unknown id is a no-op.
func (c *Controller) Delete(ctx context.Context, id string) error {
	existing, err := c.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load requests: %w", err)
	}

	kept := make([]Request, 0, len(existing))
	for _, r := range existing {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(existing) {
		return nil
	}

	if err := c.Store.SaveAll(ctx, kept); err != nil {
		return fmt.Errorf("save requests: %w", err)
	}
	return nil
}

// List returns the current collection snapshot.
func (c *Controller) List(ctx context.Context) ([]Request, error) {
	return c.Store.LoadAll(ctx)
}

// Get returns a record by id, or ErrRequestNotFound.
func (c *Controller) Get(ctx context.Context, id string) (*Request, error) {
	existing, err := c.Store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	for i := range existing {
		if existing[i].ID == id {
			return &existing[i], nil
		}
	}
	return nil, ErrRequestNotFound
}
