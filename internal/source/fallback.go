package source

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// FallbackProvider serves from a primary provider and substitutes a fallback
// dataset when the primary fails or times out. An upstream outage is logged,
// never propagated: the index engine always gets a usable (possibly
// synthetic) series. Unknown criterion ids are the one exception — those are
// caller errors and pass through.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
	logger   *slog.Logger
}

func NewFallbackProvider(primary, fallback Provider, timeout time.Duration, logger *slog.Logger) *FallbackProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

func (p *FallbackProvider) FetchSeries(ctx context.Context, criterionID string) (Series, error) {
	if !IsKnown(criterionID) {
		return nil, ErrUnknownCriterion
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	series, err := p.primary.FetchSeries(fetchCtx, criterionID)
	if err == nil {
		return series, nil
	}
	if errors.Is(err, ErrUnknownCriterion) {
		return nil, err
	}

	p.logger.Warn("primary data source failed, serving fallback",
		"criterion", criterionID,
		"error", err,
	)
	return p.fallback.FetchSeries(ctx, criterionID)
}
