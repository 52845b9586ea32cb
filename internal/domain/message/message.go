// Package message holds the sandbox's message entity and its lifecycle rules.
package message

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

var (
	// ErrEmptyRecipient is returned when no recipient phone number is provided.
	ErrEmptyRecipient = errors.New("recipient phone number is required")
	// ErrEmptyContent is returned when the message body is empty.
	ErrEmptyContent = errors.New("message content is required")
	// ErrMissingSender is returned when the sandbox has no from number configured.
	ErrMissingSender = errors.New("sender phone number is required")
	// ErrNotFound is returned by repositories for unknown handles and groups.
	ErrNotFound = errors.New("message not found")
)

// Draft carries the inputs for a new message.
type Draft struct {
	AccountEmail   string
	From           phonenumber.PhoneNumber
	To             []phonenumber.PhoneNumber
	GroupID        string
	Content        string
	MediaURL       string
	SendStyle      sendblue.SendStyle
	StatusCallback string
	// Downgraded marks a message delivered over SMS instead of iMessage.
	Downgraded bool
}

// Message is one outbound message as the sandbox tracks it.
type Message struct {
	Handle         uuid.UUID
	AccountEmail   string
	From           phonenumber.PhoneNumber
	To             []phonenumber.PhoneNumber
	GroupID        string
	Content        string
	MediaURL       string
	SendStyle      sendblue.SendStyle
	StatusCallback string
	Status         sendblue.Status
	Downgraded     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New builds a queued single-recipient message.
func New(d Draft, now time.Time) (*Message, error) {
	if len(d.To) != 1 || d.To[0].IsZero() {
		return nil, ErrEmptyRecipient
	}
	d.GroupID = ""
	return build(d, now)
}

// NewGroup builds a queued group message. A new group id is minted when the
// draft does not reference an existing group.
func NewGroup(d Draft, now time.Time) (*Message, error) {
	if len(d.To) == 0 {
		return nil, ErrEmptyRecipient
	}
	for _, n := range d.To {
		if n.IsZero() {
			return nil, ErrEmptyRecipient
		}
	}
	if strings.TrimSpace(d.GroupID) == "" {
		d.GroupID = uuid.NewString()
	}
	return build(d, now)
}

func build(d Draft, now time.Time) (*Message, error) {
	if d.From.IsZero() {
		return nil, ErrMissingSender
	}
	content := strings.TrimSpace(d.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	now = now.UTC()
	return &Message{
		Handle:         uuid.New(),
		AccountEmail:   d.AccountEmail,
		From:           d.From,
		To:             append([]phonenumber.PhoneNumber(nil), d.To...),
		GroupID:        strings.TrimSpace(d.GroupID),
		Content:        content,
		MediaURL:       d.MediaURL,
		SendStyle:      d.SendStyle,
		StatusCallback: d.StatusCallback,
		Status:         sendblue.StatusQueued,
		Downgraded:     d.Downgraded,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsGroup reports whether the message belongs to a group conversation.
func (m *Message) IsGroup() bool { return m.GroupID != "" }

// Involves reports whether n is the sender or one of the recipients.
func (m *Message) Involves(n phonenumber.PhoneNumber) bool {
	if m.From.Equal(n) {
		return true
	}
	for _, to := range m.To {
		if to.Equal(n) {
			return true
		}
	}
	return false
}

// Advance moves the message one step along QUEUED -> SENT -> DELIVERED.
// It returns false when the message is already in a final state.
func (m *Message) Advance(now time.Time) bool {
	switch m.Status {
	case sendblue.StatusQueued:
		m.Status = sendblue.StatusSent
	case sendblue.StatusSent:
		m.Status = sendblue.StatusDelivered
	default:
		return false
	}
	m.UpdatedAt = now.UTC()
	return true
}

// Clone returns a deep copy safe to hand out of a repository.
func (m *Message) Clone() *Message {
	c := *m
	c.To = append([]phonenumber.PhoneNumber(nil), m.To...)
	return &c
}
