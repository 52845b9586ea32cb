package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/internal/cache"
	domain "github.com/NewtTheWolf/sendblue/internal/domain/message"
	"github.com/NewtTheWolf/sendblue/internal/request"
	"github.com/NewtTheWolf/sendblue/internal/webhook"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// ErrInvalidRequest marks failures caused by the caller's input.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

type MessageService interface {
	Send(ctx context.Context, req request.SendMessageRequest) (*domain.Message, error)
	SendGroup(ctx context.Context, req request.SendGroupMessageRequest) (*domain.Message, error)
	List(ctx context.Context, f domain.Filter) ([]*domain.Message, error)
	Evaluate(ctx context.Context, number string) (phonenumber.PhoneNumber, sendblue.Service, error)
	SendTypingIndicator(ctx context.Context, number string) (phonenumber.PhoneNumber, error)
	ProcessBatch(ctx context.Context) error
}

// Options carries the sandbox identity and batch processing settings.
type Options struct {
	From         phonenumber.PhoneNumber
	AccountEmail string
	// SMSOnlyRegions lists ISO regions whose numbers evaluate to SMS.
	SMSOnlyRegions []string
	CacheTTL       time.Duration

	BatchSize         int
	MaxWorkers        int
	PerMessageTimeout time.Duration
}

type messageService struct {
	repo     domain.Repository
	cache    cache.Cache
	notifier webhook.Notifier
	logger   zerolog.Logger
	opts     Options
	now      func() time.Time
}

// NewMessageService creates a message service with the given dependencies.
// cache and notifier may be nil. The settings are passed explicitly from the
// caller (e.g. main) so this package does not depend on env.
func NewMessageService(
	repo domain.Repository,
	c cache.Cache,
	notifier webhook.Notifier,
	opts Options,
	logger zerolog.Logger,
) MessageService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	if opts.PerMessageTimeout <= 0 {
		opts.PerMessageTimeout = 5 * time.Second
	}
	regions := make([]string, 0, len(opts.SMSOnlyRegions))
	for _, r := range opts.SMSOnlyRegions {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			regions = append(regions, r)
		}
	}
	opts.SMSOnlyRegions = regions

	return &messageService{
		repo:     repo,
		cache:    c,
		notifier: notifier,
		logger:   logger.With().Str("component", "message_service").Logger(),
		opts:     opts,
		now:      time.Now,
	}
}

// Send validates and queues a single-recipient message.
func (s *messageService) Send(ctx context.Context, req request.SendMessageRequest) (*domain.Message, error) {
	to, err := parseNumber("number", req.Number)
	if err != nil {
		return nil, err
	}
	opt, err := parseOptionals(req.MediaURL, req.StatusCallback, req.SendStyle)
	if err != nil {
		return nil, err
	}

	service := s.serviceFor(to)
	m, err := domain.New(domain.Draft{
		AccountEmail:   s.opts.AccountEmail,
		From:           s.opts.From,
		To:             []phonenumber.PhoneNumber{to},
		Content:        req.Content,
		MediaURL:       opt.media,
		SendStyle:      opt.style,
		StatusCallback: opt.callback,
		Downgraded:     !service.IsIMessage(),
	}, s.now())
	if err != nil {
		return nil, domainErr(err)
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	s.logger.Info().Str("handle", m.Handle.String()).Str("to", to.E164()).Msg("message queued")
	return m, nil
}

// SendGroup validates and queues a group message. An existing group id with
// no numbers reuses the group's recipients.
func (s *messageService) SendGroup(ctx context.Context, req request.SendGroupMessageRequest) (*domain.Message, error) {
	groupID := strings.TrimSpace(req.GroupID)

	var numbers []phonenumber.PhoneNumber
	for i, raw := range req.Numbers {
		n, err := parseNumber(fmt.Sprintf("numbers[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		if !slices.ContainsFunc(numbers, n.Equal) {
			numbers = append(numbers, n)
		}
	}

	switch {
	case len(numbers) == 0 && groupID == "":
		return nil, invalid("numbers or group_id is required")
	case len(numbers) == 0:
		recipients, err := s.repo.GroupRecipients(ctx, groupID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalid("unknown group_id %q", groupID)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve group: %w", err)
		}
		numbers = recipients
	}

	opt, err := parseOptionals(req.MediaURL, req.StatusCallback, req.SendStyle)
	if err != nil {
		return nil, err
	}

	m, err := domain.NewGroup(domain.Draft{
		AccountEmail:   s.opts.AccountEmail,
		From:           s.opts.From,
		To:             numbers,
		GroupID:        groupID,
		Content:        req.Content,
		MediaURL:       opt.media,
		SendStyle:      opt.style,
		StatusCallback: opt.callback,
	}, s.now())
	if err != nil {
		return nil, domainErr(err)
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save group message: %w", err)
	}
	s.logger.Info().Str("handle", m.Handle.String()).Str("group_id", m.GroupID).Int("recipients", len(m.To)).Msg("group message queued")
	return m, nil
}

func (s *messageService) List(ctx context.Context, f domain.Filter) ([]*domain.Message, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, invalid("limit and offset must not be negative")
	}
	if f.Limit > sendblue.MaxMessagesLimit {
		return nil, invalid("limit must be at most %d", sendblue.MaxMessagesLimit)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, invalid("from_date must not be after to_date")
	}
	return s.repo.List(ctx, f)
}

// Evaluate reports the channel a number is reachable on. Answers are cached
// for CacheTTL when a cache is configured.
func (s *messageService) Evaluate(ctx context.Context, raw string) (phonenumber.PhoneNumber, sendblue.Service, error) {
	n, err := parseNumber("number", raw)
	if err != nil {
		return phonenumber.PhoneNumber{}, "", err
	}

	key := cache.Evaluations.Key(n.E164())
	if s.cache != nil {
		v, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			return n, sendblue.Service(v), nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn().Err(err).Str("key", key).Msg("evaluation cache read failed")
		}
	}

	service := s.serviceFor(n)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, string(service), s.opts.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("evaluation cache write failed")
		}
	}
	return n, service, nil
}

func (s *messageService) serviceFor(n phonenumber.PhoneNumber) sendblue.Service {
	if slices.Contains(s.opts.SMSOnlyRegions, n.Region()) {
		return sendblue.ServiceSMS
	}
	return sendblue.ServiceIMessage
}

func (s *messageService) SendTypingIndicator(ctx context.Context, raw string) (phonenumber.PhoneNumber, error) {
	n, err := parseNumber("number", raw)
	if err != nil {
		return phonenumber.PhoneNumber{}, err
	}
	if err := ctx.Err(); err != nil {
		return phonenumber.PhoneNumber{}, err
	}
	s.logger.Debug().Str("to", n.E164()).Msg("typing indicator sent")
	return n, nil
}

// ProcessBatch advances up to BatchSize non-final messages by one status step
// using a small worker pool, posting status callbacks where registered.
func (s *messageService) ProcessBatch(ctx context.Context) error {
	messages, err := s.repo.Pending(ctx, s.opts.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending messages: %w", err)
	}
	if len(messages) == 0 {
		s.logger.Debug().Msg("no pending messages")
		return nil
	}

	workerCount := min(len(messages), s.opts.MaxWorkers)
	s.logger.Debug().Int("messages", len(messages)).Int("workers", workerCount).Msg("processing batch")

	var wg sync.WaitGroup

	// Each worker processes a stride of messages: worker w handles indices
	// w, w+workerCount, w+2*workerCount, ...
	for w := 0; w < workerCount; w++ {
		wg.Add(1)

		go func(workerID, start int) {
			defer wg.Done()

			for i := start; i < len(messages); i += workerCount {
				if ctx.Err() != nil {
					s.logger.Warn().Int("worker", workerID).Msg("context cancelled, stopping worker")
					return
				}

				msgCtx, cancel := context.WithTimeout(ctx, s.opts.PerMessageTimeout)
				if err := s.advance(msgCtx, messages[i]); err != nil {
					s.logger.Error().Err(err).Int("worker", workerID).Str("handle", messages[i].Handle.String()).Msg("failed to advance message")
				}
				cancel()
			}
		}(w+1, w)
	}

	wg.Wait()
	return nil
}

func (s *messageService) advance(ctx context.Context, m *domain.Message) error {
	if !m.Advance(s.now()) {
		return nil
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if m.StatusCallback == "" || s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, m.StatusCallback, StatusCallback(m)); err != nil {
		return fmt.Errorf("status callback: %w", err)
	}
	return nil
}

// StatusCallback renders m as the payload posted to its status_callback URL.
func StatusCallback(m *domain.Message) sendblue.MessageStatusCallback {
	cb := sendblue.MessageStatusCallback{
		AccountEmail:  m.AccountEmail,
		Content:       m.Content,
		IsOutbound:    true,
		Status:        m.Status,
		MessageHandle: m.Handle.String(),
		DateSent:      sendblue.Timestamp{Time: m.CreatedAt},
		DateUpdated:   sendblue.Timestamp{Time: m.UpdatedAt},
		FromNumber:    m.From,
		Plan:          "sandbox",
	}
	if len(m.To) > 0 {
		cb.Number = m.To[0]
		cb.ToNumber = m.To[0]
	}
	if m.Downgraded {
		downgraded := true
		cb.WasDowngraded = &downgraded
	}
	return cb
}

func parseNumber(field, raw string) (phonenumber.PhoneNumber, error) {
	if strings.TrimSpace(raw) == "" {
		return phonenumber.PhoneNumber{}, invalid("%s is required", field)
	}
	n, err := phonenumber.Parse(raw, "")
	if err != nil {
		return phonenumber.PhoneNumber{}, invalid("%s: %v", field, err)
	}
	return n, nil
}

type optionals struct {
	media    string
	callback string
	style    sendblue.SendStyle
}

func parseOptionals(media, callback, style string) (optionals, error) {
	var out optionals
	if strings.TrimSpace(media) != "" {
		u, err := sendblue.ParseMediaURL(media)
		if err != nil {
			return out, invalid("media_url: %v", err)
		}
		out.media = u.String()
	}
	if strings.TrimSpace(callback) != "" {
		u, err := sendblue.ParseCallbackURL(callback)
		if err != nil {
			return out, invalid("status_callback: %v", err)
		}
		out.callback = u.String()
	}
	if strings.TrimSpace(style) != "" {
		st, err := sendblue.ParseSendStyle(style)
		if err != nil {
			return out, invalid("send_style: %v", err)
		}
		out.style = st
	}
	return out, nil
}

func domainErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyRecipient), errors.Is(err, domain.ErrEmptyContent):
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	default:
		return err
	}
}
