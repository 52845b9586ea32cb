package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/NewtTheWolf/sendblue"
	domain "github.com/NewtTheWolf/sendblue/internal/domain/message"
	"github.com/NewtTheWolf/sendblue/internal/request"
	"github.com/NewtTheWolf/sendblue/internal/response"
	"github.com/NewtTheWolf/sendblue/internal/service"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

const defaultListLimit = 100

// MessageHandler serves the emulated Sendblue API on top of the message service.
type MessageHandler struct {
	msgSvc service.MessageService
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(msgSvc service.MessageService) *MessageHandler {
	return &MessageHandler{msgSvc: msgSvc}
}

// SendMessage godoc
// @Summary     Send a message
// @Description Queues an iMessage (or SMS) to a single recipient.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    ApiKeyID
// @Security    ApiSecret
// @Param       request body request.SendMessageRequest true "Message"
// @Success     202 {object} sendblue.MessageResponse
// @Failure     400 {object} response.APIError
// @Failure     401 {object} response.APIError
// @Router      /api/send-message [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondAPIError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := h.msgSvc.Send(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, response.FromDomainMessage(m))
}

// SendGroupMessage godoc
// @Summary     Send a group message
// @Description Queues a message to a new group of numbers or to an existing group_id.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    ApiKeyID
// @Security    ApiSecret
// @Param       request body request.SendGroupMessageRequest true "Group message"
// @Success     202 {object} sendblue.GroupMessageResponse
// @Failure     400 {object} response.APIError
// @Failure     401 {object} response.APIError
// @Router      /api/send-group-message [post]
func (h *MessageHandler) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req request.SendGroupMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondAPIError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := h.msgSvc.SendGroup(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, response.FromDomainGroupMessage(m))
}

// GetMessages godoc
// @Summary     List messages
// @Description Returns the message history, newest first.
// @Tags        messages
// @Produce     json
// @Security    ApiKeyID
// @Security    ApiSecret
// @Param       cid       query string false "Conversation id"
// @Param       number    query string false "Recipient number (E.164)"
// @Param       limit     query int    false "Page size (max 1000)" default(100)
// @Param       offset    query int    false "Offset"               default(0)
// @Param       from_date query string false "RFC 3339 lower bound"
// @Param       to_date   query string false "RFC 3339 upper bound"
// @Success     200 {object} sendblue.GetMessagesResponse
// @Failure     400 {object} response.APIError
// @Failure     401 {object} response.APIError
// @Router      /api/accounts/messages [get]
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		response.RespondAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.msgSvc.List(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, response.FromDomainMessages(items))
}

// EvaluateService godoc
// @Summary     Evaluate service
// @Description Reports whether a number is reachable over iMessage or SMS.
// @Tags        numbers
// @Produce     json
// @Security    ApiKeyID
// @Security    ApiSecret
// @Param       number query string true "Number (E.164)"
// @Success     200 {object} sendblue.EvaluateServiceResponse
// @Failure     400 {object} response.APIError
// @Failure     401 {object} response.APIError
// @Router      /api/evaluate-service [get]
func (h *MessageHandler) EvaluateService(w http.ResponseWriter, r *http.Request) {
	n, svc, err := h.msgSvc.Evaluate(r.Context(), r.URL.Query().Get("number"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sendblue.EvaluateServiceResponse{Number: n, Service: svc})
}

// SendTypingIndicator godoc
// @Summary     Send typing indicator
// @Description Shows the typing bubble to a recipient.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    ApiKeyID
// @Security    ApiSecret
// @Param       request body request.TypingIndicatorRequest true "Recipient"
// @Success     200 {object} sendblue.TypingIndicatorResponse
// @Failure     400 {object} response.APIError
// @Failure     401 {object} response.APIError
// @Router      /api/send-typing-indicator [post]
func (h *MessageHandler) SendTypingIndicator(w http.ResponseWriter, r *http.Request) {
	var req request.TypingIndicatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondAPIError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.msgSvc.SendTypingIndicator(r.Context(), req.Number)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sendblue.TypingIndicatorResponse{
		Number: n,
		Status: sendblue.TypingIndicatorSent,
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		response.RespondAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	response.RespondAPIError(w, http.StatusInternalServerError, err.Error())
}

// parseFilter reads the listing query. cid is treated as a conversation id
// and matched against group ids.
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	f := domain.Filter{
		GroupID: q.Get("cid"),
		Limit:   defaultListLimit,
	}

	if v := q.Get("number"); v != "" {
		n, err := phonenumber.Parse(v, "")
		if err != nil {
			return f, err
		}
		f.Number = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("limit must be an integer")
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("offset must be an integer")
		}
		f.Offset = n
	}

	var err error
	if f.From, err = parseDate(q.Get("from_date")); err != nil {
		return f, errors.New("from_date must be an RFC 3339 timestamp")
	}
	if f.To, err = parseDate(q.Get("to_date")); err != nil {
		return f, errors.New("to_date must be an RFC 3339 timestamp")
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
