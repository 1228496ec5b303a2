package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FundMonitor/internal/domain/models"
	domrepo "FundMonitor/internal/domain/repository"
	"FundMonitor/pkg/logger"
)

// EventPipeline sits between the refresher and the cycle publisher. Submit
// never blocks a refresh: events are buffered and flushed in the background,
// with a bounded retry when the downstream is unavailable.
type EventPipeline struct {
	pub      domrepo.CyclePublisher
	metrics  domrepo.Metrics
	log      *logger.Logger
	bufCh    chan *models.CycleEvent
	attempts int
	timeout  time.Duration
	backoff  time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many events may wait for the publisher.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.CycleEvent, n)
		}
	}
}

// WithRetry sets publish attempts per event and the initial backoff.
func WithRetry(attempts int, backoff time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if backoff > 0 {
			p.backoff = backoff
		}
	}
}

// WithPublishTimeout bounds a single publish call.
func WithPublishTimeout(d time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewEventPipeline(pub domrepo.CyclePublisher, metrics domrepo.Metrics, log *logger.Logger, opts ...PipelineOption) *EventPipeline {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &EventPipeline{
		pub:      pub,
		metrics:  metrics,
		log:      log.With(logger.String("component", "event_pipeline")),
		bufCh:    make(chan *models.CycleEvent, 256),
		attempts: 3,
		timeout:  5 * time.Second,
		backoff:  50 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background flusher. It exits when ctx is done or Stop
// is called, after draining what is already buffered.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case ev, ok := <-p.bufCh:
				if !ok {
					return
				}
				p.flush(ev)
			}
		}
	}()
}

// Submit validates and enqueues ev, dropping it when the buffer is full.
func (p *EventPipeline) Submit(ev *models.CycleEvent) {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		p.log.Warn("dropping invalid cycle event", logger.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	select {
	case p.bufCh <- ev:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		p.log.Warn("event buffer full, dropping cycle event", logger.String("cycle_id", ev.CycleID))
	}
}

// Stop closes the buffer, waits for the flusher to publish what remains and
// closes the publisher.
func (p *EventPipeline) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	started := p.started
	close(p.bufCh)
	p.mu.Unlock()

	if started {
		<-p.done
	}
	return p.pub.Close()
}

func (p *EventPipeline) drain() {
	for {
		select {
		case ev, ok := <-p.bufCh:
			if !ok {
				return
			}
			p.flush(ev)
		default:
			return
		}
	}
}

func (p *EventPipeline) flush(ev *models.CycleEvent) {
	backoff := p.backoff
	var err error
	for i := 1; i <= p.attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err = p.pub.Publish(ctx, ev)
		cancel()
		if err == nil {
			return
		}
		p.metrics.RecordError("pipeline_publish")
		if i < p.attempts {
			time.Sleep(backoff)
			if backoff < 2*time.Second {
				backoff *= 2
			}
		}
	}
	p.log.Error("cycle event dropped after retries",
		logger.String("cycle_id", ev.CycleID),
		logger.Int("attempts", p.attempts),
		logger.Error(err))
}

func validateEvent(ev *models.CycleEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.CycleID == "" {
		return fmt.Errorf("cycle id empty")
	}
	if ev.At.IsZero() {
		return fmt.Errorf("cycle time missing")
	}
	return nil
}
