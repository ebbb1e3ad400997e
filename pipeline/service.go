package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/debuggerone/comako/aperak"
	"github.com/debuggerone/comako/config"
	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/metric"
	"github.com/debuggerone/comako/natsclient"
	"github.com/debuggerone/comako/pkg/worker"
)

// Service subscribes to the inbound subject and fans raw interchanges
// out over a worker pool into the processor. Lifecycle: NewService,
// Start, Stop.
type Service struct {
	cfg       config.Config
	processor *Processor
	client    *natsclient.Client
	pool      *worker.Pool[string]
	logger    *slog.Logger

	sub *nats.Subscription
}

// NewService wires the processor, pool and bus client together.
func NewService(cfg *config.Config, client *natsclient.Client, registry *metric.MetricsRegistry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []ProcessorOption{WithLogger(logger)}
	if registry != nil {
		opts = append(opts, WithMetrics(registry.CoreMetrics()))
	}
	if client != nil {
		opts = append(opts, WithPublisher(client))
	}
	if cfg.Service.DefaultRecipient != "" {
		opts = append(opts, WithGenerator(newGeneratorFor(cfg, logger)))
	}

	processor := NewProcessor(cfg.Service.Name, cfg.Service.SenderID, opts...)

	s := &Service{
		cfg:       *cfg,
		processor: processor,
		client:    client,
		logger:    logger,
	}

	poolOpts := []worker.Option[string]{}
	if registry != nil {
		poolOpts = append(poolOpts, worker.WithMetricsRegistry[string](registry, "comako_pipeline"))
	}
	s.pool = worker.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize,
		func(ctx context.Context, raw string) error {
			_, err := processor.Process(ctx, raw)
			return err
		},
		poolOpts...,
	)

	return s
}

func newGeneratorFor(cfg *config.Config, logger *slog.Logger) *aperak.Generator {
	return aperak.NewGenerator(cfg.Service.SenderID,
		aperak.WithLogger(logger),
		aperak.WithDefaultRecipient(cfg.Service.DefaultRecipient),
	)
}

// Processor returns the underlying processor, e.g. for direct
// synchronous use.
func (s *Service) Processor() *Processor {
	return s.processor
}

// Start launches the worker pool and subscribes to the inbound subject.
func (s *Service) Start(ctx context.Context) error {
	if err := s.pool.Start(ctx); err != nil {
		return errors.WrapFatal(err, "Service", "Start", "start worker pool")
	}

	if s.client != nil {
		sub, err := s.client.QueueSubscribe(s.cfg.NATS.InboundSubject, s.cfg.NATS.QueueGroup, func(msg *nats.Msg) {
			if err := s.Submit(string(msg.Data)); err != nil {
				s.logger.Warn("interchange dropped", "error", err, "subject", msg.Subject)
			}
		})
		if err != nil {
			return errors.WrapFatal(err, "Service", "Start", "subscribe to inbound subject")
		}
		s.sub = sub
	}

	s.logger.Info("pipeline started",
		"workers", s.cfg.Pipeline.Workers,
		"inbound_subject", s.cfg.NATS.InboundSubject,
	)
	return nil
}

// Submit offers one raw interchange to the pool.
func (s *Service) Submit(raw string) error {
	return s.pool.Submit(raw)
}

// Stop unsubscribes and drains the pool within the timeout.
func (s *Service) Stop(timeout time.Duration) error {
	if s.sub != nil {
		if err := s.sub.Drain(); err != nil {
			s.logger.Warn("drain inbound subscription failed", "error", err)
		}
		s.sub = nil
	}
	if err := s.pool.Stop(timeout); err != nil {
		return errors.WrapTransient(err, "Service", "Stop", "stop worker pool")
	}
	return nil
}

// Healthy reports whether the service can accept work.
func (s *Service) Healthy() bool {
	if s.client != nil && !s.client.IsConnected() {
		return false
	}
	stats := s.pool.Stats()
	return stats.QueueDepth < stats.QueueSize
}

// Stats returns the worker pool counters.
func (s *Service) Stats() worker.PoolStats {
	return s.pool.Stats()
}
