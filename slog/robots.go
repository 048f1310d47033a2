package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/crawlstat"
)

// Ensure LoggingRobotsPolicy implements crawlstat.RobotsPolicy.
var _ crawlstat.RobotsPolicy = (*LoggingRobotsPolicy)(nil)

// LoggingRobotsPolicy logs URLs that robots.txt rules disallow.
type LoggingRobotsPolicy struct {
	next   crawlstat.RobotsPolicy
	logger *slog.Logger
}

// NewLoggingRobotsPolicy creates a new LoggingRobotsPolicy.
func NewLoggingRobotsPolicy(next crawlstat.RobotsPolicy, logger *slog.Logger) *LoggingRobotsPolicy {
	return &LoggingRobotsPolicy{next: next, logger: logger}
}

// Allowed delegates to the wrapped policy.
func (p *LoggingRobotsPolicy) Allowed(ctx context.Context, url string) bool {
	allowed := p.next.Allowed(ctx, url)
	if !allowed {
		p.logger.Info("robots disallowed", "url", url)
	}
	return allowed
}
