package infrastructure

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yourusername/sysmod-go/internal/domain"
	"go.uber.org/zap"
)

// InstallerActionFactory builds install actions that shell out to the
// external install/flash pipeline
type InstallerActionFactory struct {
	binary string
	args   []string
	logger *zap.Logger
}

// NewInstallerActionFactory creates a factory for the configured installer
func NewInstallerActionFactory(config *domain.InstallerConfig, logger *zap.Logger) *InstallerActionFactory {
	return &InstallerActionFactory{
		binary: config.Binary,
		args:   config.Args,
		logger: logger,
	}
}

// BuildInstallAction returns a fire-once handle that runs the installer
// on the downloaded file, bound to the given notification id
func (f *InstallerActionFactory) BuildInstallAction(ctx context.Context, fileURI string, notifyID int) (domain.ActionHandle, error) {
	if f.binary == "" {
		return nil, fmt.Errorf("installer binary not configured")
	}

	path := strings.TrimPrefix(fileURI, "file://")
	args := append(append([]string{}, f.args...), path)

	fn := func(ctx context.Context) error {
		f.logger.Info("Launching installer",
			zap.String("command", ShellEscapeCommand(f.binary, args...)),
			zap.Int("notify_id", notifyID))

		cmd := exec.CommandContext(ctx, f.binary, args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			f.logger.Error("Installer failed",
				zap.Int("notify_id", notifyID),
				zap.String("output", string(output)),
				zap.Error(err))
			return fmt.Errorf("installer failed: %w", err)
		}

		f.logger.Debug("Installer finished", zap.Int("notify_id", notifyID))
		return nil
	}

	return domain.WrapAction(notifyID, fn), nil
}
