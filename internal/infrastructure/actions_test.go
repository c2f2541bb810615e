package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sysmod-go/internal/domain"
	"go.uber.org/zap"
)

func TestBuildInstallAction_RequiresBinary(t *testing.T) {
	factory := NewInstallerActionFactory(&domain.InstallerConfig{}, zap.NewNop())

	_, err := factory.BuildInstallAction(context.Background(), "file:///tmp/mod.zip", 1)
	assert.Error(t, err)
}

func TestBuildInstallAction_BindsNotifyID(t *testing.T) {
	factory := NewInstallerActionFactory(&domain.InstallerConfig{Binary: "sysmod-flash"}, zap.NewNop())

	handle, err := factory.BuildInstallAction(context.Background(), "file:///tmp/mod.zip", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, handle.NotifyID())
}

func TestInstallAction_FireFailsForMissingBinary(t *testing.T) {
	factory := NewInstallerActionFactory(&domain.InstallerConfig{Binary: "/nonexistent/sysmod-flash"}, zap.NewNop())

	handle, err := factory.BuildInstallAction(context.Background(), "file:///tmp/mod.zip", 7)
	require.NoError(t, err)

	err = handle.Fire(context.Background())
	assert.Error(t, err)

	// Fire-once: the second call returns the memoized outcome
	assert.Equal(t, err, handle.Fire(context.Background()))
}
