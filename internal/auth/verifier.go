package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"
)

// Verifier validates email/password pairs against the user store.
//
// Hash comparisons are deliberately expensive, so they run under a bounded
// semaphore: a burst of login attempts queues instead of starving unrelated
// request processing. Acquisition honors context cancellation, which lets a
// disconnected client abandon a pending verification.
type Verifier struct {
	store UserStore
	sem   *semaphore.Weighted
	cost  int

	// dummyHash is compared against on the unknown-email path so both failure
	// paths cost one bcrypt comparison. Without it, "account not found" would
	// return measurably faster than "wrong password".
	dummyHash string
}

// NewVerifier constructs a Verifier. concurrency bounds simultaneous hash
// computations; cost is the bcrypt cost used for new hashes.
func NewVerifier(store UserStore, concurrency int64, cost int) (*Verifier, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if concurrency <= 0 {
		return nil, errors.New("auth: concurrency must be positive")
	}
	dummy, err := HashPassword("folio-equalization-probe", cost)
	if err != nil {
		return nil, fmt.Errorf("auth: precompute dummy hash: %w", err)
	}
	return &Verifier{
		store:     store,
		sem:       semaphore.NewWeighted(concurrency),
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// Authenticate looks up the identity by email and verifies the password.
// Unknown email and wrong password produce the identical ErrInvalidCredentials;
// only a store outage surfaces as a distinct error.
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := v.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a comparison anyway to keep the two failure paths
			// indistinguishable by timing.
			if cmpErr := v.compare(ctx, v.dummyHash, password); cmpErr != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}

	if err := v.compare(ctx, user.PasswordHash, password); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register hashes the password and persists a new identity. The hash runs
// under the same bounded pool as verification.
func (v *Verifier) Register(ctx context.Context, email, password, displayName string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	if err := v.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, v.cost)
	v.sem.Release(1)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := v.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (v *Verifier) compare(ctx context.Context, hash, password string) error {
	if err := v.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		defer v.sem.Release(1)
		done <- VerifyPassword(hash, password)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The comparison is a pure read plus CPU compute; it finishes on its
		// own and releases the slot.
		return ctx.Err()
	}
}
