package goricci

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/njchilds90/goricci/symbolic"
)

// Headed is implemented by tensor heads and by every application of one.
type Headed interface {
	Head() *Tensor
}

// ReplEntry is the live array of one tensor head together with the dummy
// indices it was registered under.
type ReplEntry struct {
	Head    *Tensor
	Indices []Index
	Array   *symbolic.Array
}

// Repl maps tensor heads to their current arrays. Entries are keyed by the
// head's identity, so every indexed application of a head resolves to the
// same entry.
type Repl struct {
	entries map[uuid.UUID]*ReplEntry
	order   []uuid.UUID
}

func NewRepl() *Repl { return &Repl{entries: map[uuid.UUID]*ReplEntry{}} }

func (r *Repl) Len() int { return len(r.entries) }

// Keys returns the registered head identities in insertion order.
func (r *Repl) Keys() []uuid.UUID { return append([]uuid.UUID(nil), r.order...) }

// GetKey resolves any application of a head to the key of its entry.
func (r *Repl) GetKey(h Headed) (uuid.UUID, bool) {
	head := h.Head()
	if head == nil {
		return uuid.Nil, false
	}
	if _, ok := r.entries[head.id]; !ok {
		return uuid.Nil, false
	}
	return head.id, true
}

func (r *Repl) HasKey(h Headed) bool {
	_, ok := r.GetKey(h)
	return ok
}

// SetItem overwrites the array of an existing entry.
func (r *Repl) SetItem(h Headed, arr *symbolic.Array) error {
	key, ok := r.GetKey(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnresolved, h.Head().symbol)
	}
	r.entries[key].Array = arr
	return nil
}

// Set overwrites the entry of h when one exists and inserts it otherwise.
func (r *Repl) Set(h Headed, arr *symbolic.Array) {
	if r.SetItem(h, arr) == nil {
		return
	}
	head := h.Head()
	r.entries[head.id] = &ReplEntry{Head: head, Indices: head.DummyIndices(), Array: arr}
	r.order = append(r.order, head.id)
}

func (r *Repl) Get(h Headed) (*symbolic.Array, bool) {
	key, ok := r.GetKey(h)
	if !ok {
		return nil, false
	}
	return r.entries[key].Array, true
}

// Entry returns the full entry for a key.
func (r *Repl) Entry(key uuid.UUID) (ReplEntry, bool) {
	e, ok := r.entries[key]
	if !ok {
		return ReplEntry{}, false
	}
	return *e, true
}

// Update merges other into r; entries of other win.
func (r *Repl) Update(other *Repl) {
	for _, key := range other.order {
		e := other.entries[key]
		if cur, ok := r.entries[key]; ok {
			cur.Array = e.Array
			continue
		}
		r.entries[key] = &ReplEntry{Head: e.Head, Indices: e.Indices, Array: e.Array}
		r.order = append(r.order, key)
	}
}
