package device

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/droidtask/internal/config"
)

func testMockConfig() *config.DebugConfig {
	return &config.DebugConfig{
		Mode:         true,
		DeviceName:   "mock-device-0",
		ScreenWidth:  1080,
		ScreenHeight: 2340,
	}
}

func TestMockDevice_ScreenSizeMatchesConfig(t *testing.T) {
	d := NewMockDevice(testMockConfig(), zerolog.Nop())

	size, err := d.ScreenSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1080, size.Width)
	assert.Equal(t, 2340, size.Height)
}

func TestMockDevice_ScreenshotProducesConfiguredResolution(t *testing.T) {
	d := NewMockDevice(testMockConfig(), zerolog.Nop())

	shot, err := d.Screenshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1080, shot.Size.Width)
	assert.Equal(t, 2340, shot.Size.Height)
	assert.NotEmpty(t, shot.Data)
}

func TestMockDevice_StartAppTracksForeground(t *testing.T) {
	d := NewMockDevice(testMockConfig(), zerolog.Nop())

	require.NoError(t, d.StartApp(context.Background(), "com.tencent.mm"))
	app, err := d.ForegroundApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "com.tencent.mm", app)
}

func TestMockDevice_GoHomeClearsForeground(t *testing.T) {
	d := NewMockDevice(testMockConfig(), zerolog.Nop())
	require.NoError(t, d.StartApp(context.Background(), "com.tencent.mm"))

	require.NoError(t, d.GoHome(context.Background()))
	app, err := d.ForegroundApp(context.Background())
	require.NoError(t, err)
	assert.Empty(t, app)
}

func TestMockDevice_StopAppClearsForegroundWhenMatching(t *testing.T) {
	d := NewMockDevice(testMockConfig(), zerolog.Nop())
	require.NoError(t, d.StartApp(context.Background(), "com.tencent.mm"))

	require.NoError(t, d.StopApp(context.Background(), "com.tencent.mm"))
	app, err := d.ForegroundApp(context.Background())
	require.NoError(t, err)
	assert.Empty(t, app)
}
