package response

import (
	"github.com/NewtTheWolf/sendblue"
	domain "github.com/NewtTheWolf/sendblue/internal/domain/message"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status string `json:"status"`
	// Scheduler is "running", "stopped" or "disabled".
	Scheduler string `json:"scheduler"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
	Running bool   `json:"running"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

const plan = "sandbox"

// FromDomainMessage renders a single-recipient message as Sendblue's send
// response.
func FromDomainMessage(m *domain.Message) sendblue.MessageResponse {
	resp := sendblue.MessageResponse{
		AccountEmail:  m.AccountEmail,
		Content:       m.Content,
		IsOutbound:    true,
		Status:        m.Status,
		MessageHandle: m.Handle.String(),
		DateSent:      sendblue.Timestamp{Time: m.CreatedAt},
		DateUpdated:   sendblue.Timestamp{Time: m.UpdatedAt},
		FromNumber:    m.From,
		WasDowngraded: downgraded(m),
		Plan:          plan,
		MediaURL:      m.MediaURL,
		MessageType:   "message",
		SendStyle:     string(m.SendStyle),
	}
	if len(m.To) > 0 {
		resp.Number = m.To[0]
		resp.ToNumber = m.To[0]
	}
	return resp
}

// FromDomainGroupMessage renders a group message as Sendblue's group send
// response.
func FromDomainGroupMessage(m *domain.Message) sendblue.GroupMessageResponse {
	to := append([]phonenumber.PhoneNumber(nil), m.To...)
	return sendblue.GroupMessageResponse{
		AccountEmail:  m.AccountEmail,
		Content:       m.Content,
		IsOutbound:    true,
		Status:        m.Status,
		MessageHandle: m.Handle.String(),
		DateSent:      sendblue.Timestamp{Time: m.CreatedAt},
		DateUpdated:   sendblue.Timestamp{Time: m.UpdatedAt},
		FromNumber:    m.From,
		Number:        to,
		ToNumber:      to,
		WasDowngraded: downgraded(m),
		Plan:          plan,
		MediaURL:      m.MediaURL,
		MessageType:   "group",
		GroupID:       m.GroupID,
	}
}

// FromDomainMessages renders a listing as Sendblue's message history.
func FromDomainMessages(msgs []*domain.Message) sendblue.GetMessagesResponse {
	out := sendblue.GetMessagesResponse{Messages: make([]sendblue.RetrievedMessage, len(msgs))}
	for i, m := range msgs {
		allowSMS := m.Downgraded
		rm := sendblue.RetrievedMessage{
			Date:          sendblue.Timestamp{Time: m.CreatedAt},
			AllowSMS:      &allowSMS,
			SendStyle:     string(m.SendStyle),
			MessageType:   "message",
			UUID:          m.Handle.String(),
			MediaURL:      m.MediaURL,
			Content:       m.Content,
			IsOutbound:    true,
			AccountEmail:  m.AccountEmail,
			WasDowngraded: downgraded(m),
			CallbackURL:   m.StatusCallback,
			Status:        m.Status,
			DateSent:      sendblue.Timestamp{Time: m.CreatedAt},
			DateUpdated:   sendblue.Timestamp{Time: m.UpdatedAt},
			GroupID:       m.GroupID,
			FromNumber:    m.From,
		}
		if m.IsGroup() {
			rm.MessageType = "group"
		}
		if len(m.To) > 0 {
			rm.Number = m.To[0]
			rm.ToNumber = m.To[0]
		}
		out.Messages[i] = rm
	}
	return out
}

func downgraded(m *domain.Message) *bool {
	if !m.Downgraded {
		return nil
	}
	v := true
	return &v
}
