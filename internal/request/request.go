package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the scheduler. Allowed values:
	// - "start": start advancing message statuses
	// - "stop":  stop advancing message statuses
	Action string `json:"action"`
}

// SendMessageRequest is the body of POST /api/send-message.
type SendMessageRequest struct {
	Number         string `json:"number"`
	Content        string `json:"content"`
	MediaURL       string `json:"media_url,omitempty"`
	StatusCallback string `json:"status_callback,omitempty"`
	SendStyle      string `json:"send_style,omitempty"`
}

// SendGroupMessageRequest is the body of POST /api/send-group-message.
type SendGroupMessageRequest struct {
	Numbers        []string `json:"numbers,omitempty"`
	GroupID        string   `json:"group_id,omitempty"`
	Content        string   `json:"content"`
	MediaURL       string   `json:"media_url,omitempty"`
	StatusCallback string   `json:"status_callback,omitempty"`
	SendStyle      string   `json:"send_style,omitempty"`
}

// TypingIndicatorRequest is the body of POST /api/send-typing-indicator.
type TypingIndicatorRequest struct {
	Number string `json:"number"`
}
