// Package memory is an in-process implementation of the message repository.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/NewtTheWolf/sendblue/internal/domain/message"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// Repository keeps messages in insertion order behind a RWMutex.
type Repository struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	messages map[uuid.UUID]*message.Message
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{messages: make(map[uuid.UUID]*message.Message)}
}

// Save stores a copy of m.
func (r *Repository) Save(ctx context.Context, m *message.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[m.Handle]; ok {
		return fmt.Errorf("message %s already exists", m.Handle)
	}
	r.messages[m.Handle] = m.Clone()
	r.order = append(r.order, m.Handle)
	return nil
}

// List returns messages matching f, newest first, then applies offset and limit.
func (r *Repository) List(ctx context.Context, f message.Filter) ([]*message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*message.Message
	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.messages[r.order[i]]
		if !matches(m, f) {
			continue
		}
		out = append(out, m.Clone())
	}

	// Insertion order already gives newest first unless clocks went backwards.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*message.Message{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	if out == nil {
		out = []*message.Message{}
	}
	return out, nil
}

func matches(m *message.Message, f message.Filter) bool {
	if !f.Number.IsZero() && !m.Involves(f.Number) {
		return false
	}
	if f.GroupID != "" && m.GroupID != f.GroupID {
		return false
	}
	if !f.From.IsZero() && m.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && m.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// Pending returns up to limit non-final messages, oldest first.
func (r *Repository) Pending(ctx context.Context, limit int) ([]*message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*message.Message
	for _, h := range r.order {
		m := r.messages[h]
		if m.Status.IsFinal() {
			continue
		}
		out = append(out, m.Clone())
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Update replaces the stored copy of m.
func (r *Repository) Update(ctx context.Context, m *message.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[m.Handle]; !ok {
		return fmt.Errorf("update %s: %w", m.Handle, message.ErrNotFound)
	}
	r.messages[m.Handle] = m.Clone()
	return nil
}

// GroupRecipients returns the recipients of the oldest message in groupID.
func (r *Repository) GroupRecipients(ctx context.Context, groupID string) ([]phonenumber.PhoneNumber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.order {
		m := r.messages[h]
		if m.GroupID == groupID && groupID != "" {
			return append([]phonenumber.PhoneNumber(nil), m.To...), nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", groupID, message.ErrNotFound)
}

var _ message.Repository = (*Repository)(nil)
