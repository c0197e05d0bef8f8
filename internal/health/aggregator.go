package health

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/vsevolod6/practika/internal/gateway"
	"github.com/vsevolod6/practika/internal/resources"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	errMissingProber     = errors.New("health: prober is required")
	errMissingSummarizer = errors.New("health: store summarizer is required")
)

// Prober reports whether the legacy RPC service answers a real lookup.
type Prober interface {
	Probe(ctx context.Context) gateway.ProbeResult
}

// StoreSummarizer reports the catalog size.
type StoreSummarizer interface {
	Summary(ctx context.Context) (resources.Summary, error)
}

type Services struct {
	SOAPServer gateway.ProbeResult `json:"soap_server"`
	Database   resources.Summary   `json:"database"`
}

// Report is the aggregated health document.
type Report struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Services       Services  `json:"services"`
	RuntimeVersion string    `json:"runtimeVersion"`
}

type AggregatorConfig struct {
	Prober Prober
	Store  StoreSummarizer
	Clock  func() time.Time
	Logger *zap.Logger
}

// Aggregator composes the RPC probe and the store summary.
type Aggregator struct {
	prober Prober
	store  StoreSummarizer
	clock  func() time.Time
	logger *zap.Logger
}

func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if cfg.Prober == nil {
		return nil, errMissingProber
	}
	if cfg.Store == nil {
		return nil, errMissingSummarizer
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		prober: cfg.Prober,
		store:  cfg.Store,
		clock:  clock,
		logger: logger,
	}, nil
}

// Check runs both checks concurrently. Status is "ok" whenever the store
// summary succeeds, even when the probe reports the RPC service unavailable.
// A store failure is returned as the error.
func (a *Aggregator) Check(ctx context.Context) (Report, error) {
	var (
		probe   gateway.ProbeResult
		summary resources.Summary
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		probe = a.prober.Probe(groupCtx)
		return nil
	})
	group.Go(func() error {
		var err error
		summary, err = a.store.Summary(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		a.logger.Error("health check failed", zap.Error(err))
		return Report{Status: StatusError, Timestamp: a.clock().UTC()}, err
	}

	if !probe.Available {
		a.logger.Warn("legacy rpc probe failed", zap.String("error", probe.Error))
	}

	return Report{
		Status:    StatusOK,
		Timestamp: a.clock().UTC(),
		Services: Services{
			SOAPServer: probe,
			Database:   summary,
		},
		RuntimeVersion: runtime.Version(),
	}, nil
}
