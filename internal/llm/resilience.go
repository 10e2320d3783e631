package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/entity"
)

type breakerResult struct {
	fields entity.CertificateFields
	raw    []byte
}

// BreakerExtractor wraps a FieldExtractor with a circuit breaker so a
// misbehaving backend fails fast. Open-circuit and transport failures
// surface as retryable; content/schema failures pass through untouched and
// do not trip the breaker.
type BreakerExtractor struct {
	inner FieldExtractor
	cb    *gobreaker.CircuitBreaker[breakerResult]
	log   *slog.Logger
}

func NewBreakerExtractor(inner FieldExtractor, logger *slog.Logger) *BreakerExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	b := &BreakerExtractor{inner: inner, log: logger}
	b.cb = gobreaker.NewCircuitBreaker[breakerResult](gobreaker.Settings{
		Name:    "llm-extract",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// only transport-level failures count against the breaker
			return err == nil || !common.Retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm.breaker.state_change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return b
}

func (b *BreakerExtractor) ExtractFields(ctx context.Context, req ExtractRequest) (entity.CertificateFields, []byte, error) {
	res, err := b.cb.Execute(func() (breakerResult, error) {
		fields, raw, err := b.inner.ExtractFields(ctx, req)
		return breakerResult{fields: fields, raw: raw}, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return entity.CertificateFields{}, nil, common.WrapRetryable("llm extraction backend unavailable", err)
		}
		return res.fields, res.raw, err
	}
	return res.fields, res.raw, nil
}
