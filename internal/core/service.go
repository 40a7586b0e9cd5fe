package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPublishTimeout bounds how long a batch event may take to publish.
const DefaultPublishTimeout = 5 * time.Second

// Service owns the record store, its persister and the validation rules, and
// exposes the list and batch-submit operations.
type Service struct {
	mu        sync.Mutex
	store     *RecordStore
	persister Persister
	engine    *RulesEngine
	logger    Logger
	clock     Clock
	metrics   MetricsRecorder
	tracer    Tracer
	events    EventPublisher
	newID     func() string

	publishTimeout time.Duration
}

// ServiceOption customises a Service at construction time.
type ServiceOption func(*Service)

// WithLogger routes service logs to logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithEventPublisher installs the sink for batch events.
func WithEventPublisher(publisher EventPublisher) ServiceOption {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithRulesEngine replaces the default candidate validator.
func WithRulesEngine(engine *RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithIDGenerator overrides how batch ids are minted.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithPublishTimeout bounds each batch event publish. Non-positive values are ignored.
func WithPublishTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewService constructs a service over an already populated store.
func NewService(store *RecordStore, persister Persister, opts ...ServiceOption) *Service {
	if store == nil {
		store = NewRecordStore(nil)
	}
	svc := &Service{
		store:     store,
		persister: persister,
		engine:    NewDefaultRulesEngine(),
		logger:    noopLogger{},
		clock:     systemClock{},
		metrics:   noopMetrics{},
		tracer:    noopTracer{},
		events:    NoopPublisher{},
		newID:     uuid.NewString,

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Open loads the persisted sequence and returns a service serving it.
// Missing state yields an empty store; corrupt state is returned as an error.
func Open(ctx context.Context, persister Persister, opts ...ServiceOption) (*Service, error) {
	if persister == nil {
		return nil, fmt.Errorf("persister cannot be nil")
	}
	customers, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	svc := NewService(NewRecordStore(customers), persister, opts...)
	svc.logger.Info("customers loaded", "driver", persister.Driver(), "count", len(customers))
	return svc, nil
}

// Store returns the underlying record store.
func (s *Service) Store() *RecordStore {
	return s.store
}

// List returns the current ordered sequence.
func (s *Service) List(ctx context.Context) []Customer {
	var out []Customer
	_ = s.run(ctx, "list_customers", func(context.Context) error {
		out = s.store.List()
		return nil
	})
	return out
}

// SubmitBatch validates each candidate in input order against the current
// store, inserts the accepted ones and collects rejection reasons. The whole
// store is persisted once afterwards, even when the batch is empty or every
// candidate was rejected. A persistence failure is returned alongside the
// computed result; the accepted records stay in memory.
//
// Cancelling ctx does not abandon the save once candidates were inserted.
// The batch event is published after the store lock is released.
func (s *Service) SubmitBatch(ctx context.Context, batch []Customer) (BatchResult, error) {
	var (
		result BatchResult
		event  *BatchEvent
	)
	err := s.run(ctx, "submit_batch", func(ctx context.Context) error {
		var err error
		result, event, err = s.applyBatch(ctx, batch)
		return err
	})
	if event != nil {
		s.publish(ctx, *event)
	}
	return result, err
}

func (s *Service) applyBatch(ctx context.Context, batch []Customer) (BatchResult, *BatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reasons := make([]string, 0)
	accepted := 0
	for _, candidate := range batch {
		res, err := s.engine.Evaluate(ctx, s.store, candidate)
		if err != nil {
			return BatchResult{}, nil, fmt.Errorf("evaluate customer %d: %w", candidate.ID, err)
		}
		if v, rejected := res.First(); rejected {
			s.logger.Debug("customer rejected", "rule", v.Rule, "code", v.Code, "id", candidate.ID)
			reasons = append(reasons, v.Message)
			continue
		}
		idx := s.store.Insert(candidate)
		accepted++
		s.logger.Debug("customer accepted", "id", candidate.ID, "position", idx)
	}

	result := BatchResult{Added: s.store.Len(), Errors: reasons}
	s.metrics.ObserveBatch(ctx, accepted, len(reasons), result.Added)

	// memory already holds the batch; storage must follow it.
	if err := s.persister.Save(context.WithoutCancel(ctx), s.store.List()); err != nil {
		return result, nil, fmt.Errorf("persist batch: %w", err)
	}

	return result, &BatchEvent{
		BatchID:     s.newID(),
		Received:    len(batch),
		Accepted:    accepted,
		Rejected:    len(reasons),
		Total:       result.Added,
		ProcessedAt: s.clock.Now(),
	}, nil
}

// publish never fails the batch: the records are already persisted.
func (s *Service) publish(ctx context.Context, event BatchEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.events.PublishBatch(ctx, event); err != nil {
		s.logger.Warn("publish batch event failed", "batch", event.BatchID, "error", err)
	}
}

func (s *Service) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, operation)
	err := fn(ctx)
	span.End(err)
	elapsed := s.clock.Now().Sub(start)
	s.metrics.Observe(ctx, operation, err == nil, elapsed)
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "duration", elapsed, "error", err)
		return err
	}
	s.logger.Debug("operation completed", "operation", operation, "duration", elapsed)
	return nil
}
