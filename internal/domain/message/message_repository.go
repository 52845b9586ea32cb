package message

import (
	"context"
	"time"

	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// Filter narrows a message listing. Zero fields do not filter.
type Filter struct {
	Number phonenumber.PhoneNumber
	// GroupID restricts the listing to one group conversation.
	GroupID string
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}

// Repository defines the storage operations the sandbox needs.
//
// Implementations must return copies so callers can mutate results freely.
type Repository interface {
	// Save stores a new message.
	Save(ctx context.Context, m *Message) error

	// List returns messages matching f, newest first.
	List(ctx context.Context, f Filter) ([]*Message, error)

	// Pending returns up to limit messages that have not reached a final status,
	// oldest first.
	Pending(ctx context.Context, limit int) ([]*Message, error)

	// Update replaces the stored state of an existing message.
	Update(ctx context.Context, m *Message) error

	// GroupRecipients returns the recipients of the first message sent to
	// groupID, or ErrNotFound.
	GroupRecipients(ctx context.Context, groupID string) ([]phonenumber.PhoneNumber, error)
}
