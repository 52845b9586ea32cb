package sendblue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// Status is the delivery state of a message.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
	StatusReceived  Status = "RECEIVED"
	StatusFailed    Status = "FAILED"
	StatusError     Status = "ERROR"
)

// IsFinal reports whether no further status updates are expected.
func (s Status) IsFinal() bool {
	switch s {
	case StatusDelivered, StatusRead, StatusReceived, StatusFailed, StatusError:
		return true
	}
	return false
}

// ErrorCode is Sendblue's numeric error code.
type ErrorCode int

const (
	ErrorCodeValidation                   ErrorCode = 4000
	ErrorCodeRateLimitExceeded            ErrorCode = 4001
	ErrorCodeBlacklistedNumber            ErrorCode = 4002
	ErrorCodeInternal                     ErrorCode = 5000
	ErrorCodeServerRateExceeded           ErrorCode = 5003
	ErrorCodeMessageFailedToSend          ErrorCode = 10001
	ErrorCodeFailedToResolveMessageStatus ErrorCode = 10002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCodeValidation:                   "validation error",
	ErrorCodeRateLimitExceeded:            "rate limit exceeded",
	ErrorCodeBlacklistedNumber:            "blacklisted number",
	ErrorCodeInternal:                     "internal error",
	ErrorCodeServerRateExceeded:           "server rate exceeded",
	ErrorCodeMessageFailedToSend:          "message failed to send",
	ErrorCodeFailedToResolveMessageStatus: "failed to resolve message status",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "error code " + strconv.Itoa(int(c))
}

// UnmarshalJSON accepts numbers and numeric strings.
func (c *ErrorCode) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("error_code: %w", err)
	}
	*c = ErrorCode(n)
	return nil
}

// Timestamp is a point in time as returned by the API, which uses both
// RFC 3339 strings and Firestore {"_seconds","_nanoseconds"} objects.
type Timestamp struct {
	time.Time
}

type firestoreTime struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '{' {
		var ft firestoreTime
		if err := json.Unmarshal(data, &ft); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.Unix(ft.Seconds, ft.Nanoseconds).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// MessageResponse is returned by Send.
type MessageResponse struct {
	AccountEmail  string                  `json:"accountEmail"`
	Content       string                  `json:"content"`
	IsOutbound    bool                    `json:"is_outbound"`
	Status        Status                  `json:"status"`
	ErrorCode     *ErrorCode              `json:"error_code,omitempty"`
	ErrorMessage  *string                 `json:"error_message,omitempty"`
	MessageHandle string                  `json:"message_handle"`
	DateSent      Timestamp               `json:"date_sent"`
	DateUpdated   Timestamp               `json:"date_updated"`
	FromNumber    phonenumber.PhoneNumber `json:"from_number"`
	Number        phonenumber.PhoneNumber `json:"number"`
	ToNumber      phonenumber.PhoneNumber `json:"to_number"`
	WasDowngraded *bool                   `json:"was_downgraded,omitempty"`
	Plan          string                  `json:"plan,omitempty"`
	MediaURL      string                  `json:"media_url"`
	MessageType   string                  `json:"message_type,omitempty"`
	GroupID       string                  `json:"group_id,omitempty"`
	Participants  []string                `json:"participants,omitempty"`
	SendStyle     string                  `json:"send_style"`
	OptedOut      bool                    `json:"opted_out"`
	ErrorDetail   *string                 `json:"error_detail,omitempty"`
}

// GroupMessageResponse is returned by SendGroup.
type GroupMessageResponse struct {
	AccountEmail  string                    `json:"accountEmail"`
	Content       string                    `json:"content"`
	IsOutbound    bool                      `json:"is_outbound"`
	Status        Status                    `json:"status"`
	ErrorCode     *ErrorCode                `json:"error_code,omitempty"`
	ErrorMessage  *string                   `json:"error_message,omitempty"`
	MessageHandle string                    `json:"message_handle"`
	DateSent      Timestamp                 `json:"date_sent"`
	DateUpdated   Timestamp                 `json:"date_updated"`
	FromNumber    phonenumber.PhoneNumber   `json:"from_number"`
	Number        []phonenumber.PhoneNumber `json:"number"`
	ToNumber      []phonenumber.PhoneNumber `json:"to_number"`
	WasDowngraded *bool                     `json:"was_downgraded,omitempty"`
	Plan          string                    `json:"plan,omitempty"`
	MediaURL      string                    `json:"media_url"`
	MessageType   string                    `json:"message_type"`
	GroupID       string                    `json:"group_id"`
}

// RetrievedMessage is one entry of the message history.
type RetrievedMessage struct {
	Date          Timestamp               `json:"date"`
	AllowSMS      *bool                   `json:"allowSMS,omitempty"`
	SendStyle     string                  `json:"sendStyle,omitempty"`
	MessageType   string                  `json:"type,omitempty"`
	UUID          string                  `json:"uuid"`
	MediaURL      string                  `json:"media_url,omitempty"`
	Content       string                  `json:"content,omitempty"`
	Number        phonenumber.PhoneNumber `json:"number,omitzero"`
	IsOutbound    bool                    `json:"is_outbound"`
	AccountEmail  string                  `json:"accountEmail"`
	WasDowngraded *bool                   `json:"was_downgraded,omitempty"`
	CallbackURL   string                  `json:"callbackURL,omitempty"`
	RowID         string                  `json:"row_id,omitempty"`
	Status        Status                  `json:"status"`
	ErrorMessage  *string                 `json:"error_message,omitempty"`
	ToNumber      phonenumber.PhoneNumber `json:"to_number,omitzero"`
	DateSent      Timestamp               `json:"date_sent,omitzero"`
	DateUpdated   Timestamp               `json:"date_updated,omitzero"`
	ErrorDetail   *string                 `json:"error_detail,omitempty"`
	PhoneID       string                  `json:"phoneID,omitempty"`
	GroupID       string                  `json:"group_id,omitempty"`
	FromNumber    phonenumber.PhoneNumber `json:"from_number,omitzero"`
	ErrorCode     *ErrorCode              `json:"error_code,omitempty"`
}

// GetMessagesResponse is returned by GetMessages.
type GetMessagesResponse struct {
	Messages []RetrievedMessage `json:"messages"`
}

// Service is the channel a number can be reached on.
type Service string

const (
	ServiceIMessage Service = "iMessage"
	ServiceSMS      Service = "SMS"
)

func (s Service) IsIMessage() bool { return s == ServiceIMessage }

// EvaluateServiceResponse is returned by EvaluateService.
type EvaluateServiceResponse struct {
	Number  phonenumber.PhoneNumber `json:"number"`
	Service Service                 `json:"service"`
}

// TypingIndicatorStatus is the outcome of a typing indicator request.
type TypingIndicatorStatus string

const (
	TypingIndicatorSent  TypingIndicatorStatus = "SENT"
	TypingIndicatorError TypingIndicatorStatus = "ERROR"
)

// TypingIndicatorResponse is returned by SendTypingIndicator.
type TypingIndicatorResponse struct {
	Number       phonenumber.PhoneNumber `json:"number"`
	Status       TypingIndicatorStatus   `json:"status"`
	ErrorMessage *string                 `json:"error_message,omitempty"`
}

// MessageStatusCallback is the payload Sendblue posts to a message's
// status_callback URL.
type MessageStatusCallback struct {
	AccountEmail  string                  `json:"accountEmail"`
	Content       string                  `json:"content"`
	IsOutbound    bool                    `json:"is_outbound"`
	Status        Status                  `json:"status"`
	ErrorCode     *ErrorCode              `json:"error_code,omitempty"`
	ErrorMessage  *string                 `json:"error_message,omitempty"`
	MessageHandle string                  `json:"message_handle"`
	DateSent      Timestamp               `json:"date_sent"`
	DateUpdated   Timestamp               `json:"date_updated"`
	FromNumber    phonenumber.PhoneNumber `json:"from_number"`
	Number        phonenumber.PhoneNumber `json:"number"`
	ToNumber      phonenumber.PhoneNumber `json:"to_number"`
	WasDowngraded *bool                   `json:"was_downgraded,omitempty"`
	Plan          string                  `json:"plan"`
}

// ParseStatusCallback decodes a status callback body received by the caller's
// own HTTP handler.
func ParseStatusCallback(r io.Reader) (*MessageStatusCallback, error) {
	var cb MessageStatusCallback
	if err := json.NewDecoder(r).Decode(&cb); err != nil {
		return nil, &Error{Kind: KindDecode, Op: "status callback", Err: err}
	}
	if cb.MessageHandle == "" {
		return nil, &Error{Kind: KindDecode, Op: "status callback", Err: fmt.Errorf("missing message_handle")}
	}
	return &cb, nil
}
