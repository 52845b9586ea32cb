package sendblue

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// MaxMessagesLimit is the largest page size accepted by GetMessages.
const MaxMessagesLimit = 1000

// Message is a single-recipient outgoing message. Build one with MessageBuilder.
type Message struct {
	Number         phonenumber.PhoneNumber `json:"number"`
	Content        string                  `json:"content,omitempty"`
	MediaURL       MediaURL                `json:"media_url,omitzero"`
	StatusCallback CallbackURL             `json:"status_callback,omitzero"`
	SendStyle      SendStyle               `json:"send_style,omitempty"`
}

func (m *Message) validate(op string) error {
	if m.Number.IsZero() {
		return missingField(op, "number")
	}
	if strings.TrimSpace(m.Content) == "" {
		return missingField(op, "content")
	}
	if m.SendStyle != "" && !m.SendStyle.Valid() {
		return validationError(op, "unknown send style %q", m.SendStyle)
	}
	return nil
}

// MessageBuilder accumulates the fields of a Message and validates them in Build.
type MessageBuilder struct {
	msg Message
}

// NewMessageBuilder returns an empty builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// To sets the recipient.
func (b *MessageBuilder) To(number phonenumber.PhoneNumber) *MessageBuilder {
	b.msg.Number = number
	return b
}

func (b *MessageBuilder) Content(content string) *MessageBuilder {
	b.msg.Content = content
	return b
}

func (b *MessageBuilder) MediaURL(u MediaURL) *MessageBuilder {
	b.msg.MediaURL = u
	return b
}

func (b *MessageBuilder) StatusCallback(u CallbackURL) *MessageBuilder {
	b.msg.StatusCallback = u
	return b
}

func (b *MessageBuilder) SendStyle(s SendStyle) *MessageBuilder {
	b.msg.SendStyle = s
	return b
}

// Build returns the message, or a KindValidation error naming the first
// missing required field (number, then content).
func (b *MessageBuilder) Build() (*Message, error) {
	msg := b.msg
	if err := msg.validate("message builder"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GroupMessage is an outgoing message to several recipients or an existing group.
type GroupMessage struct {
	Numbers        []phonenumber.PhoneNumber `json:"numbers,omitempty"`
	GroupID        string                    `json:"group_id,omitempty"`
	Content        string                    `json:"content,omitempty"`
	MediaURL       MediaURL                  `json:"media_url,omitzero"`
	SendStyle      SendStyle                 `json:"send_style,omitempty"`
	StatusCallback CallbackURL               `json:"status_callback,omitzero"`
}

func (g *GroupMessage) validate(op string) error {
	if len(g.Numbers) == 0 && strings.TrimSpace(g.GroupID) == "" {
		return missingField(op, "numbers or group_id")
	}
	for i, n := range g.Numbers {
		if n.IsZero() {
			return validationError(op, "numbers[%d] is empty", i)
		}
	}
	if strings.TrimSpace(g.Content) == "" {
		return missingField(op, "content")
	}
	if g.SendStyle != "" && !g.SendStyle.Valid() {
		return validationError(op, "unknown send style %q", g.SendStyle)
	}
	return nil
}

// GroupMessageBuilder accumulates the fields of a GroupMessage.
type GroupMessageBuilder struct {
	msg GroupMessage
}

func NewGroupMessageBuilder() *GroupMessageBuilder {
	return &GroupMessageBuilder{}
}

// Numbers appends recipients. Duplicates are dropped in Build.
func (b *GroupMessageBuilder) Numbers(numbers ...phonenumber.PhoneNumber) *GroupMessageBuilder {
	b.msg.Numbers = append(b.msg.Numbers, numbers...)
	return b
}

// GroupID targets an existing group instead of (or as well as) a number list.
func (b *GroupMessageBuilder) GroupID(id string) *GroupMessageBuilder {
	b.msg.GroupID = strings.TrimSpace(id)
	return b
}

func (b *GroupMessageBuilder) Content(content string) *GroupMessageBuilder {
	b.msg.Content = content
	return b
}

func (b *GroupMessageBuilder) MediaURL(u MediaURL) *GroupMessageBuilder {
	b.msg.MediaURL = u
	return b
}

func (b *GroupMessageBuilder) SendStyle(s SendStyle) *GroupMessageBuilder {
	b.msg.SendStyle = s
	return b
}

func (b *GroupMessageBuilder) StatusCallback(u CallbackURL) *GroupMessageBuilder {
	b.msg.StatusCallback = u
	return b
}

// Build returns the group message, or a KindValidation error naming the first
// missing required field (numbers or group_id, then content).
func (b *GroupMessageBuilder) Build() (*GroupMessage, error) {
	msg := b.msg
	msg.Numbers = dedupeNumbers(b.msg.Numbers)
	if err := msg.validate("group message builder"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// dedupeNumbers returns a fresh slice without repeated numbers, keeping order.
func dedupeNumbers(in []phonenumber.PhoneNumber) []phonenumber.PhoneNumber {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]phonenumber.PhoneNumber, 0, len(in))
	for _, n := range in {
		if !n.IsZero() {
			if _, dup := seen[n.E164()]; dup {
				continue
			}
			seen[n.E164()] = struct{}{}
		}
		out = append(out, n)
	}
	return out
}

// GetMessagesParams filters and paginates the message history. The zero value
// means "no filters".
type GetMessagesParams struct {
	// CID restricts results to one contact id.
	CID      string
	Number   phonenumber.PhoneNumber
	Limit    int
	Offset   int
	FromDate time.Time
	ToDate   time.Time
}

func (p *GetMessagesParams) validate(op string) error {
	if p.Limit < 0 || p.Limit > MaxMessagesLimit {
		return validationError(op, "limit must be between 1 and %d, got %d", MaxMessagesLimit, p.Limit)
	}
	if p.Offset < 0 {
		return validationError(op, "offset must not be negative, got %d", p.Offset)
	}
	if !p.FromDate.IsZero() && !p.ToDate.IsZero() && p.FromDate.After(p.ToDate) {
		return validationError(op, "from_date must not be after to_date")
	}
	return nil
}

// Values encodes the params as a query string. Unset fields are omitted.
func (p *GetMessagesParams) Values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.CID != "" {
		v.Set("cid", p.CID)
	}
	if !p.Number.IsZero() {
		v.Set("number", p.Number.E164())
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	if !p.FromDate.IsZero() {
		v.Set("from_date", p.FromDate.UTC().Format(time.RFC3339))
	}
	if !p.ToDate.IsZero() {
		v.Set("to_date", p.ToDate.UTC().Format(time.RFC3339))
	}
	return v
}

// GetMessagesParamsBuilder builds GetMessagesParams. Every field is optional.
type GetMessagesParamsBuilder struct {
	params   GetMessagesParams
	limitSet bool
}

func NewGetMessagesParamsBuilder() *GetMessagesParamsBuilder {
	return &GetMessagesParamsBuilder{}
}

func (b *GetMessagesParamsBuilder) CID(cid string) *GetMessagesParamsBuilder {
	b.params.CID = strings.TrimSpace(cid)
	return b
}

func (b *GetMessagesParamsBuilder) Number(n phonenumber.PhoneNumber) *GetMessagesParamsBuilder {
	b.params.Number = n
	return b
}

func (b *GetMessagesParamsBuilder) Limit(limit int) *GetMessagesParamsBuilder {
	b.params.Limit = limit
	b.limitSet = true
	return b
}

func (b *GetMessagesParamsBuilder) Offset(offset int) *GetMessagesParamsBuilder {
	b.params.Offset = offset
	return b
}

func (b *GetMessagesParamsBuilder) FromDate(t time.Time) *GetMessagesParamsBuilder {
	b.params.FromDate = t
	return b
}

func (b *GetMessagesParamsBuilder) ToDate(t time.Time) *GetMessagesParamsBuilder {
	b.params.ToDate = t
	return b
}

// Build validates the bounds of limit, offset and the date range.
func (b *GetMessagesParamsBuilder) Build() (*GetMessagesParams, error) {
	const op = "get messages params builder"

	params := b.params
	if b.limitSet && params.Limit <= 0 {
		return nil, validationError(op, "limit must be between 1 and %d, got %d", MaxMessagesLimit, params.Limit)
	}
	if err := params.validate(op); err != nil {
		return nil, err
	}
	return &params, nil
}

// EvaluateService asks whether a number can receive iMessage.
type EvaluateService struct {
	Number phonenumber.PhoneNumber `json:"number"`
}

// EvaluateServiceBuilder builds an EvaluateService request.
type EvaluateServiceBuilder struct {
	number phonenumber.PhoneNumber
}

func NewEvaluateServiceBuilder() *EvaluateServiceBuilder {
	return &EvaluateServiceBuilder{}
}

func (b *EvaluateServiceBuilder) Number(n phonenumber.PhoneNumber) *EvaluateServiceBuilder {
	b.number = n
	return b
}

// Build fails with KindValidation when no number was set.
func (b *EvaluateServiceBuilder) Build() (*EvaluateService, error) {
	if b.number.IsZero() {
		return nil, missingField("evaluate service builder", "number")
	}
	return &EvaluateService{Number: b.number}, nil
}

// TypingIndicator is the body of a typing indicator request.
type TypingIndicator struct {
	Number phonenumber.PhoneNumber `json:"number"`
}
