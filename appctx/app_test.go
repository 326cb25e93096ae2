package appctx

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Teara-exe/starryCafeBot/config"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		DiscordToken: "test-token",
		ReportLabel:  config.DefaultReportLabel,
		AckEmoji:     config.DefaultAckEmoji,
		Environment:  "dev",
		AnnouncerConfig: config.AnnouncerConfig{
			ChannelID: config.DefaultAnnounceChannelID,
			Interval:  10 * time.Second,
		},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig(), clockwork.NewFakeClock())
	require.NoError(t, err)

	assert.Equal(t, "Bot test-token", app.Session.Token)
	assert.NotNil(t, app.DiscordClient)
	assert.NotNil(t, app.Alerts)
	assert.NotNil(t, app.Reactions)
	assert.NotNil(t, app.Announcer)
	assert.Equal(t, 0, app.Tracking.Count())
}

func TestNewApp_AnnouncerDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AnnouncerConfig.ChannelID = ""

	app, err := NewApp(cfg, clockwork.NewFakeClock())
	require.NoError(t, err)
	assert.Nil(t, app.Announcer)
}
