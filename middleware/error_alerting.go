package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/slack-go/slack"

	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/models"
)

const DefaultAlertCooldown = 10 * time.Minute

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// EventHandlerFunc processes one platform event
type EventHandlerFunc func(ctx context.Context, event models.Event) error

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	clock         clockwork.Clock
	pending       sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig, clock clockwork.Clock) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: DefaultAlertCooldown,
		clock:         clock,
	}
}

// HTTPMiddleware recovers panics from HTTP handlers
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), "")
		next.ServeHTTP(w, r)
	})
}

// WrapEventHandler is the default failure path for platform events: errors and panics are
// logged and alerted, never propagated back into the gateway
func (m *ErrorAlertMiddleware) WrapEventHandler(handler EventHandlerFunc) EventHandlerFunc {
	return func(ctx context.Context, event models.Event) error {
		alertContext := fmt.Sprintf("Discord event: %s", event.Type())
		eventID, _ := log.EventID(ctx)
		defer m.recoverAndAlert(alertContext, eventID)

		if err := handler(ctx, event); err != nil {
			log.FromContext(ctx).Error("❌ Failed to handle event", "type", event.Type(), "error", err)
			m.alertOnError(err, alertContext, eventID)
			return err
		}
		return nil
	}
}

// Background Task Wrapper
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		alertContext := fmt.Sprintf("Background task: %s", taskName)
		defer m.recoverAndAlert(alertContext, "")

		if err := task(); err != nil {
			log.Error("❌ Background task failed", "task", taskName, "error", err)
			m.alertOnError(err, alertContext, "")
			return err
		}
		return nil
	}
}

// Wait blocks until alerts already handed off have been delivered or have failed
func (m *ErrorAlertMiddleware) Wait() {
	m.pending.Wait()
}

// alertOnError deduplicates on context and error text only, eventID differs on every event
func (m *ErrorAlertMiddleware) alertOnError(err error, context, eventID string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.clock.Now()
	if lastAlert, exists := m.alertedErrors[hash]; exists && now.Sub(lastAlert) < m.alertCooldown {
		return
	}

	m.alertedErrors[hash] = now
	m.sendAsync(errorMsg, context, eventID)
}

func (m *ErrorAlertMiddleware) recoverAndAlert(context, eventID string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Error("❌ Recovered from panic", "context", context, "panic", r, "event_id", eventID)
		m.sendAsync(errorMsg, context+" (PANIC)", eventID)
	}
}

func (m *ErrorAlertMiddleware) sendAsync(errorMsg, context, eventID string) {
	if m.config.WebhookURL == "" {
		return
	}
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		m.sendSlackAlert(errorMsg, context, eventID)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, context, eventID string) {
	if err := slack.PostWebhook(m.config.WebhookURL, m.buildAlert(errorMsg, context, eventID)); err != nil {
		log.Error("❌ Failed to send Slack alert", "error", err)
	}
}

func (m *ErrorAlertMiddleware) buildAlert(errorMsg, context, eventID string) *slack.WebhookMessage {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}
	title := fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", context), false, false),
	}
	if eventID != "" {
		fields = append(fields,
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Event ID:* `%s`", eventID), false, false))
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil, nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil, nil,
		))
	}

	return &slack.WebhookMessage{
		Text:   title,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
