package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessor is the dependency that actually does the work.
// The scheduler calls ProcessBatch on a fixed interval.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) error
}

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 2 * time.Second

// DefaultBatchTimeout bounds a single batch when none is configured.
const DefaultBatchTimeout = 30 * time.Second

// controlTimeout is how long we wait for the control loop to
// accept a Start/Stop command and acknowledge it.
const controlTimeout = 2 * time.Second

var (
	ErrControlLoopUnresponsive = errors.New("scheduler: control loop not responding")
	ErrAckTimeout              = errors.New("scheduler: acknowledgement timeout")
)

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the scheduler's state.
type controlMsg struct {
	op   controlOp
	resp chan bool
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so no locks are needed.
type schedulerService struct {
	processor    BatchProcessor
	interval     time.Duration
	batchTimeout time.Duration
	logger       zerolog.Logger
	ctrl         chan controlMsg
}

// NewSchedulerService creates a scheduler that advances the sandbox's
// messages every interval. Values <= 0 fall back to the defaults. The
// scheduler starts stopped.
func NewSchedulerService(
	processor BatchProcessor,
	interval time.Duration,
	batchTimeout time.Duration,
	logger zerolog.Logger,
) SchedulerService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	s := &schedulerService{
		processor:    processor,
		interval:     interval,
		batchTimeout: batchTimeout,
		logger:       logger.With().Str("component", "scheduler").Logger(),
		ctrl:         make(chan controlMsg),
	}

	// The control loop lives for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks. It blocks until the
// loop has acknowledged the state change.
func (s *schedulerService) Start() error {
	return s.send(opStart)
}

// Stop tells the scheduler to stop accepting new ticks. If a batch is
// running, Stop waits until that batch finishes or times out.
func (s *schedulerService) Stop() error {
	return s.send(opStop)
}

func (s *schedulerService) send(op controlOp) error {
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-time.After(controlTimeout):
		return ErrControlLoopUnresponsive
	}

	// A Stop during a batch is acknowledged only after the batch, which may
	// take up to batchTimeout.
	wait := controlTimeout
	if op == opStop {
		wait += s.batchTimeout
	}

	select {
	case <-resp:
		return nil
	case <-time.After(wait):
		return ErrAckTimeout
	}
}

// IsRunning reports whether new ticks will be processed. It does not mean
// that a batch is actively executing.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool, 1)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop owns all mutable state and reacts to either control messages or
// timer ticks.
func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false
	inBatch := false

	// batchDone receives once the in-flight batch returns.
	batchDone := make(chan error, 1)

	// pendingStops are completed once the current batch finishes.
	var pendingStops []chan bool

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.logger.Info().
						Dur("interval", s.interval).
						Dur("batch_timeout", s.batchTimeout).
						Msg("started")
				}
				running = true
				msg.resp <- true

			case opStop:
				if running {
					s.logger.Info().Bool("in_batch", inBatch).Msg("stop requested")
				}
				running = false

				if inBatch {
					pendingStops = append(pendingStops, msg.resp)
				} else {
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running || inBatch {
				continue
			}

			inBatch = true
			s.logger.Debug().Msg("triggering batch")

			// Time-bound the batch so Stop doesn't hang forever if
			// ProcessBatch never returns.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
				defer cancel()
				batchDone <- s.processor.ProcessBatch(ctx)
			}()

		case err := <-batchDone:
			inBatch = false
			if err != nil {
				s.logger.Error().Err(err).Msg("batch failed")
			} else {
				s.logger.Debug().Msg("batch completed")
			}

			for _, resp := range pendingStops {
				resp <- true
			}
			if len(pendingStops) > 0 {
				s.logger.Info().Msg("stopped")
			}
			pendingStops = nil
		}
	}
}
