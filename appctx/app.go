package appctx

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"

	"github.com/Teara-exe/starryCafeBot/clients"
	discordclient "github.com/Teara-exe/starryCafeBot/clients/discord"
	"github.com/Teara-exe/starryCafeBot/config"
	"github.com/Teara-exe/starryCafeBot/middleware"
	"github.com/Teara-exe/starryCafeBot/services/tracking"
	"github.com/Teara-exe/starryCafeBot/usecases/announcer"
	"github.com/Teara-exe/starryCafeBot/usecases/mentions"
	"github.com/Teara-exe/starryCafeBot/usecases/reactions"
)

const AppName = "starrycafebot"

// App holds everything built once at startup and shared by the event loop and background tasks
type App struct {
	Config        *config.AppConfig
	Clock         clockwork.Clock
	Session       *discordgo.Session
	DiscordClient clients.DiscordClient
	Alerts        *middleware.ErrorAlertMiddleware
	Tracking      *tracking.TrackingService
	Reactions     *reactions.ReactionsUseCase
	Announcer     *announcer.Announcer
}

// NewApp wires the application. The Discord session is created but not opened.
func NewApp(cfg *config.AppConfig, clock clockwork.Clock) (*App, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	alerts := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertConfig.SlackWebhookURL,
		Environment: cfg.Environment,
		AppName:     AppName,
		LogsURL:     cfg.AlertConfig.LogsURL,
	}, clock)

	discordClient := discordclient.NewDiscordClient(session)
	trackingService := tracking.NewTrackingService(clock)
	reactionsUseCase := reactions.NewReactionsUseCase(
		discordClient,
		trackingService,
		mentions.NewMentionResolver(discordClient),
		cfg.ReportLabel,
		cfg.AckEmoji,
	)

	app := &App{
		Config:        cfg,
		Clock:         clock,
		Session:       session,
		DiscordClient: discordClient,
		Alerts:        alerts,
		Tracking:      trackingService,
		Reactions:     reactionsUseCase,
	}

	if cfg.AnnouncerConfig.IsConfigured() {
		app.Announcer = announcer.NewAnnouncer(
			discordClient,
			cfg.AnnouncerConfig.ChannelID,
			cfg.AnnouncerConfig.Interval,
			clock,
			alerts,
		)
	}

	return app, nil
}
