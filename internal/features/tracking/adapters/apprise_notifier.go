package adapter

import (
	"context"
	"fmt"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// AppriseNotifier delivers notifications through the apprise CLI, which fans
// a single message out to whatever services the target URL encodes.
type AppriseNotifier struct {
	binary string
	runner ports.CommandRunner
	logger *zap.Logger
}

// NewAppriseNotifier creates an AppriseNotifier invoking the given apprise
// binary through the runner.
func NewAppriseNotifier(binary string, runner ports.CommandRunner) *AppriseNotifier {
	return &AppriseNotifier{
		binary: binary,
		runner: runner,
		logger: logger.Named("notify"),
	}
}

// Notify sends one notification to the target apprise URL.
func (n *AppriseNotifier) Notify(ctx context.Context, title, body, target string) error {
	n.logger.Debug("Executing apprise",
		zap.String("binary", n.binary),
		zap.String("title", title),
	)

	output, err := n.runner.Run(ctx, n.binary, "-t", title, "-b", body, target)
	if err != nil {
		n.logger.Error("Apprise command failed",
			zap.String("title", title),
			zap.ByteString("output", output),
			zap.Error(err),
		)
		return fmt.Errorf("running apprise: %w", err)
	}

	n.logger.Info("Notification sent", zap.String("title", title))
	return nil
}
