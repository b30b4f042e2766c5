package orm

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// KeyGenerator produces primary key values for models whose keys are not
// assigned by the database.
type KeyGenerator interface {
	NewKey() (any, error)
}

type uuidKeys struct{}

// UUIDKeys returns a KeyGenerator of random (version 4) UUID strings.
func UUIDKeys() KeyGenerator { return uuidKeys{} }

func (uuidKeys) NewKey() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	return id.String(), nil
}

type ulidKeys struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// ULIDKeys returns a KeyGenerator of ULID strings, monotonic within the
// same millisecond.
func ULIDKeys() KeyGenerator {
	return &ulidKeys{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidKeys) NewKey() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	return id.String(), nil
}
