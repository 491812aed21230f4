package analytics

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/metrics"
	"LinkBio-Backend/internal/repository"
	"LinkBio-Backend/pkg/useragent"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotStarted     = errors.New("processor not started")
	ErrAlreadyStarted = errors.New("processor already started")
	ErrShuttingDown   = errors.New("processor is shutting down")
	ErrQueueFull      = errors.New("analytics queue is full")
)

// EventData represents a data layer record to be persisted
type EventData struct {
	Event       string
	EventType   *string
	Payload     map[string]any
	SessionID   *string
	PageViews   *int
	Attribution *domain.AttributionRecord
	PageURL     *string
	IPAddress   *string
	UserAgent   *string
	Referer     *string
	OccurredAt  time.Time
}

// DeviceParser resolves a User-Agent into device information
type DeviceParser interface {
	ParseUserAgent(userAgent string) *useragent.DeviceInfo
}

// ProcessorConfig holds configuration for the analytics processor
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Number of retry attempts for failed jobs
	RetryDelay      time.Duration // Base delay between retries
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
	AttemptTimeout  time.Duration // Deadline of a single storage write
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
		AttemptTimeout:  30 * time.Second,
	}
}

// Processor handles asynchronous event log writes with retries
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	parser   DeviceParser
	metrics  *metrics.Metrics
	log      *zap.Logger
	jobQueue chan *EventData
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	stopped  bool
	mu       sync.RWMutex
}

// NewProcessor creates a new analytics processor. parser and m may be nil.
func NewProcessor(storage repository.Storage, parser DeviceParser, m *metrics.Metrics, log *zap.Logger, config ProcessorConfig) *Processor {
	def := DefaultConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = def.WorkerCount
	}
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	if config.AttemptTimeout <= 0 {
		config.AttemptTimeout = def.AttemptTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		parser:   parser,
		metrics:  m,
		log:      log,
		jobQueue: make(chan *EventData, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing events
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	if p.stopped {
		return ErrShuttingDown
	}

	p.log.Info("starting analytics processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop drains the queue and waits for workers, bounded by ShutdownTimeout
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return ErrNotStarted
	}

	p.log.Info("stopping analytics processor")

	// Workers drain what is already queued, then exit on the closed channel
	close(p.jobQueue)
	p.started = false
	p.stopped = true

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log.Info("analytics processor stopped gracefully")
		return nil
	case <-time.After(p.config.ShutdownTimeout):
		p.cancel()
		p.log.Warn("analytics processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}
}

// SubmitEvent submits an event for asynchronous processing
func (p *Processor) SubmitEvent(data *EventData) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return ErrNotStarted
	}

	select {
	case p.jobQueue <- data:
		p.log.Debug("event submitted for processing", zap.String("event", data.Event))
		return nil
	case <-p.ctx.Done():
		return ErrShuttingDown
	default:
		p.log.Error("analytics queue is full, dropping event",
			zap.String("event", data.Event),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		p.metrics.EventPersisted(false)
		return ErrQueueFull
	}
}

// QueueLength returns the number of events waiting to be persisted
func (p *Processor) QueueLength() int {
	return len(p.jobQueue)
}

// worker processes events with retry logic
func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Debug("analytics worker started")

	for data := range p.jobQueue {
		p.processEventWithRetry(log, data)
	}
	log.Debug("analytics worker stopped")
}

// processEventWithRetry persists a single event with exponential backoff
func (p *Processor) processEventWithRetry(log *zap.Logger, data *EventData) {
	event := p.buildEvent(data)

	var lastErr error
	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(p.ctx, p.config.AttemptTimeout)
		err := p.storage.SaveEvent(ctx, event)
		cancel()

		if err == nil || errors.Is(err, repository.ErrEventExists) {
			if attempt > 1 {
				log.Info("event persisted after retry",
					zap.String("event", data.Event),
					zap.Int("attempt", attempt),
				)
			}
			p.metrics.EventPersisted(true)
			return
		}

		lastErr = err
		log.Warn("event persistence failed",
			zap.String("event", data.Event),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.RetryAttempts),
			zap.Error(err),
		)

		if attempt == p.config.RetryAttempts {
			break
		}

		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))

		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			log.Info("worker shutdown during retry delay")
			p.metrics.EventPersisted(false)
			return
		}
	}

	log.Error("event persistence failed after all retries",
		zap.String("event", data.Event),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
	p.metrics.EventPersisted(false)
}

// buildEvent converts queued data into a log entry with device enrichment
func (p *Processor) buildEvent(data *EventData) *domain.TrackedEvent {
	occurredAt := data.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := domain.NewTrackedEvent(data.Event, occurredAt.UTC())
	event.EventType = data.EventType
	event.SessionID = data.SessionID
	event.PageViews = data.PageViews
	event.PageURL = data.PageURL
	event.IPAddress = data.IPAddress
	event.UserAgent = data.UserAgent
	event.Referer = data.Referer
	event.ApplyAttribution(data.Attribution)

	if data.Payload != nil {
		if id, ok := data.Payload["event_id"].(string); ok {
			event.EventID = &id
		}
		if b, err := json.Marshal(data.Payload); err == nil {
			s := string(b)
			event.Payload = &s
		}
	}

	if data.UserAgent != nil && p.parser != nil {
		info := p.parser.ParseUserAgent(*data.UserAgent)
		event.DeviceType = &info.DeviceType
		event.Browser = &info.Browser
		event.OS = &info.OS
	}

	return event
}

// GetStats returns processor statistics
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
	}
}
