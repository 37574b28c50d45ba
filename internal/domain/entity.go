package domain

import (
	"fmt"
	"time"
)

// Entity is the capability set shared by every persistable object.
type Entity interface {
	// ID returns the identity, or 0 when not yet persisted.
	ID() int64

	// SetID assigns the identity after insert. Assigning twice panics.
	SetID(id int64)

	// IsActive reports whether the entity is not soft-deleted.
	IsActive() bool
}

// Record is the identity and lifecycle state shared by all entities.
// It is used to rehydrate entities from storage.
type Record struct {
	ID        int64     `json:"id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Now returns the current time. Tests may replace it.
var Now = func() time.Time {
	return time.Now().UTC()
}

type base struct {
	id        int64
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

func newBase() base {
	return base{active: true, createdAt: Now()}
}

func loadBase(r Record) base {
	return base{
		id:        r.ID,
		active:    r.IsActive,
		createdAt: r.CreatedAt,
		updatedAt: r.UpdatedAt,
	}
}

// ID returns the identity, or 0 when not yet persisted.
func (b *base) ID() int64 {
	return b.id
}

// SetID assigns the storage identity exactly once.
func (b *base) SetID(id int64) {
	if b.id != 0 {
		panic(fmt.Sprintf("domain: identity already assigned (%d)", b.id))
	}
	if id <= 0 {
		panic(fmt.Sprintf("domain: invalid identity %d", id))
	}
	b.id = id
}

// IsActive reports whether the entity is not soft-deleted.
func (b *base) IsActive() bool {
	return b.active
}

// CreatedAt returns the creation time.
func (b *base) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns the last modification time (zero when never modified).
func (b *base) UpdatedAt() time.Time {
	return b.updatedAt
}

func (b *base) touch() {
	b.updatedAt = Now()
}

func (b *base) deactivate() bool {
	if !b.active {
		return false
	}
	b.active = false
	b.touch()
	return true
}

func (b *base) record() Record {
	return Record{
		ID:        b.id,
		IsActive:  b.active,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}
}
