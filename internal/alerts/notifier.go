package alerts

import (
	"context"
	"log"

	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// LogNotifier writes alert notifications to the server log. It stands in
// for a real delivery channel (email, SMS) in deployments that have none
// configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, platform *models.Platform, outcome Outcome) {
	n.logger.Printf("ALERT platform=%s name=%q outcome=%s", platform.ID, platform.Name, outcome)
}
