// Package alerts decides whether a platform's cumulative usage has crossed
// its configured monthly quota or alert threshold.
package alerts

import (
	"context"

	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// Outcome classifies a quota evaluation.
type Outcome string

const (
	OutcomeNone             Outcome = "none"
	OutcomeThresholdReached Outcome = "threshold_reached"
	OutcomeQuotaExceeded    Outcome = "quota_exceeded"
)

// Evaluate classifies totalTokens against the platform's monthly quota and
// alert threshold. A platform without a quota never alerts. Both comparisons
// are strict: usage exactly at the quota or at the threshold boundary is not
// an alert condition.
func Evaluate(platform *models.Platform, totalTokens int64) Outcome {
	if platform.MonthlyQuota == nil {
		return OutcomeNone
	}

	quota := *platform.MonthlyQuota
	if totalTokens > quota {
		return OutcomeQuotaExceeded
	}
	if totalTokens == quota {
		// Exactly at the quota is not an alert condition, and it is not
		// downgraded to a threshold alert either.
		return OutcomeNone
	}

	threshold := float64(quota) * float64(platform.AlertThreshold) / 100.0
	if float64(totalTokens) > threshold {
		return OutcomeThresholdReached
	}

	return OutcomeNone
}

// Notifier delivers alert notifications. The transport (email, SMS, webhook)
// is up to the implementation.
type Notifier interface {
	Notify(ctx context.Context, platform *models.Platform, outcome Outcome)
}

// Checker evaluates quota state and forwards non-None outcomes to a
// Notifier. It holds no state between calls.
type Checker struct {
	notifier Notifier
}

// NewChecker creates a Checker. A nil notifier disables delivery; Check
// still returns the outcome.
func NewChecker(notifier Notifier) *Checker {
	return &Checker{notifier: notifier}
}

// Check evaluates the platform and notifies on any alert condition.
func (c *Checker) Check(ctx context.Context, platform *models.Platform, totalTokens int64) Outcome {
	outcome := Evaluate(platform, totalTokens)
	if outcome != OutcomeNone && c.notifier != nil {
		c.notifier.Notify(ctx, platform, outcome)
	}
	return outcome
}
