// Package password hashes and verifies user passwords with bcrypt.
//
// bcrypt is CPU-bound; Hasher caps how many hash/compare calls run at once so
// a burst of logins queues up instead of starving unrelated request handlers.
package password

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const DefaultCost = 12

// MaxBytes is the longest input bcrypt accepts.
const MaxBytes = 72

// Hasher is safe for concurrent use.
type Hasher struct {
	cost      int
	slots     int64
	sem       *semaphore.Weighted
	dummyHash []byte
}

// NewHasher returns a Hasher using the given bcrypt cost. Costs outside the
// bcrypt range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	// Used by DummyCompare; the plaintext is irrelevant.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("timing-equaliser"), cost)

	slots := int64(runtime.GOMAXPROCS(0))
	return &Hasher{
		cost:      cost,
		slots:     slots,
		sem:       semaphore.NewWeighted(slots),
		dummyHash: dummy,
	}
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. The error is non-nil only
// when ctx ends while waiting for a hashing slot.
func (h *Hasher) Compare(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	return Verify(password, hash), nil
}

// DummyCompare burns the same amount of work as Compare against a real hash.
// Login calls it for unknown emails so response time does not reveal whether
// an account exists.
func (h *Hasher) DummyCompare(ctx context.Context, password string) error {
	_, err := h.Compare(ctx, password, string(h.dummyHash))
	return err
}

// Verify compares password against hash. A malformed hash yields false.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
