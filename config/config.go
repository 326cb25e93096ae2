package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Teara-exe/starryCafeBot/core/log"
)

const (
	DefaultAnnounceChannelID = "751096956016918608"
	DefaultAnnounceInterval  = 10 * time.Second
	DefaultCommandPrefix     = "t!"
	DefaultReportLabel       = "反応数"
	DefaultAckEmoji          = "" // Acknowledging mentions is opt-in, e.g. ACK_EMOJI=👀
	DefaultCredentialsFile   = ".credentials"
)

type AnnouncerConfig struct {
	ChannelID string
	Interval  time.Duration
}

// IsConfigured returns true if the announcer has somewhere to post and a usable interval
func (c AnnouncerConfig) IsConfigured() bool {
	return c.ChannelID != "" && c.Interval > 0
}

type AlertConfig struct {
	SlackWebhookURL string
	LogsURL         string
}

// IsConfigured returns true if error alerts can be delivered to Slack
func (c AlertConfig) IsConfigured() bool {
	return c.SlackWebhookURL != ""
}

type AppConfig struct {
	DiscordToken string
	// CommandPrefix is reserved for text commands; current handlers only react to mentions
	CommandPrefix string
	ReportLabel   string
	AckEmoji      string
	Environment   string
	LogLevel      string
	OpsPort       string // Empty disables the /health and /metrics server
	LockFile      string

	AnnouncerConfig AnnouncerConfig
	AlertConfig     AlertConfig
}

// LoadOptions override where configuration is read from; zero values use the defaults
type LoadOptions struct {
	EnvFile         string
	CredentialsFile string
}

func LoadConfig() (*AppConfig, error) {
	return LoadConfigWithOptions(LoadOptions{})
}

func LoadConfigWithOptions(opts LoadOptions) (*AppConfig, error) {
	envFiles := []string{}
	if opts.EnvFile != "" {
		envFiles = append(envFiles, opts.EnvFile)
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Warn("⚠️ Could not load .env file, continuing with system env vars")
	}

	credentialsFile := opts.CredentialsFile
	if credentialsFile == "" {
		credentialsFile = getEnvWithDefault("CREDENTIALS_FILE", DefaultCredentialsFile)
	}

	token, err := loadDiscordToken(credentialsFile)
	if err != nil {
		return nil, err
	}

	interval, err := time.ParseDuration(getEnvWithDefault("ANNOUNCE_INTERVAL", DefaultAnnounceInterval.String()))
	if err != nil {
		return nil, fmt.Errorf("ANNOUNCE_INTERVAL is not a valid duration: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("ANNOUNCE_INTERVAL must be positive, got %s", interval)
	}

	config := &AppConfig{
		DiscordToken:  token,
		CommandPrefix: getEnvWithDefault("COMMAND_PREFIX", DefaultCommandPrefix),
		ReportLabel:   getEnvWithDefault("REPORT_LABEL", DefaultReportLabel),
		AckEmoji:      getEnvWithDefault("ACK_EMOJI", DefaultAckEmoji),
		Environment:   getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		OpsPort:       getEnvAllowEmpty("OPS_PORT", "8080"),
		LockFile:      os.Getenv("LOCK_FILE"),

		AnnouncerConfig: AnnouncerConfig{
			ChannelID: getEnvWithDefault("ANNOUNCE_CHANNEL_ID", DefaultAnnounceChannelID),
			Interval:  interval,
		},

		AlertConfig: AlertConfig{
			SlackWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
			LogsURL:         os.Getenv("SERVER_LOGS_URL"),
		},
	}

	if config.AlertConfig.IsConfigured() {
		log.Info("✅ Slack error alerts configured")
	} else {
		log.Info("⚠️ Slack error alerts not configured - failures will only be logged")
	}

	return config, nil
}

// loadDiscordToken prefers DISCORD_TOKEN and falls back to the credentials file
func loadDiscordToken(credentialsFile string) (string, error) {
	if token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN")); token != "" {
		return token, nil
	}

	content, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", fmt.Errorf("DISCORD_TOKEN is not set and credentials file %s could not be read: %w", credentialsFile, err)
	}

	token := strings.TrimSpace(string(content))
	if token == "" {
		return "", fmt.Errorf("credentials file %s is empty", credentialsFile)
	}
	return token, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty returns defaultValue only when key is unset, so KEY= can switch a feature off
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
