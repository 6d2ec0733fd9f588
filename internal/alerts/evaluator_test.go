package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

func quotaPlatform(quota int64, threshold int) *models.Platform {
	return &models.Platform{
		ID:             "p1",
		Name:           "openai-main",
		MonthlyQuota:   &quota,
		AlertThreshold: threshold,
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform *models.Platform
		tokens   int64
		want     Outcome
	}{
		{"below threshold", quotaPlatform(1000, 80), 500, OutcomeNone},
		{"at threshold boundary", quotaPlatform(1000, 80), 800, OutcomeNone},
		{"just over threshold", quotaPlatform(1000, 80), 801, OutcomeThresholdReached},
		{"just under quota", quotaPlatform(1000, 80), 999, OutcomeThresholdReached},
		{"at quota boundary", quotaPlatform(1000, 80), 1000, OutcomeNone},
		{"just over quota", quotaPlatform(1000, 80), 1001, OutcomeQuotaExceeded},
		{"far over quota", quotaPlatform(1000, 80), 50000, OutcomeQuotaExceeded},
		{"no quota configured", &models.Platform{AlertThreshold: 80}, 999999, OutcomeNone},
		{"zero usage", quotaPlatform(1000, 80), 0, OutcomeNone},
		{"custom threshold", quotaPlatform(200, 50), 101, OutcomeThresholdReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Evaluate(tt.platform, tt.tokens))
		})
	}
}

type captureNotifier struct {
	platform *models.Platform
	outcome  Outcome
	calls    int
}

func (n *captureNotifier) Notify(_ context.Context, platform *models.Platform, outcome Outcome) {
	n.platform = platform
	n.outcome = outcome
	n.calls++
}

func TestChecker_NotifiesOnAlert(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	checker := NewChecker(notifier)
	platform := quotaPlatform(1000, 80)

	outcome := checker.Check(context.Background(), platform, 801)
	require.Equal(t, OutcomeThresholdReached, outcome)
	require.Equal(t, 1, notifier.calls)
	require.Equal(t, platform, notifier.platform)
	require.Equal(t, OutcomeThresholdReached, notifier.outcome)
}

func TestChecker_SilentWhenNone(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	checker := NewChecker(notifier)

	outcome := checker.Check(context.Background(), quotaPlatform(1000, 80), 100)
	require.Equal(t, OutcomeNone, outcome)
	require.Zero(t, notifier.calls)
}

func TestChecker_NilNotifier(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil)
	require.Equal(t, OutcomeQuotaExceeded, checker.Check(context.Background(), quotaPlatform(100, 80), 101))
}
