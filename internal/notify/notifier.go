package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/skypost/internal/logger"
	"github.com/bilgisen/skypost/internal/textutil"
)

// Event describes one run outcome for the side channel.
type Event struct {
	OK     bool   `json:"ok"`
	PostID string `json:"post_id,omitempty"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source,omitempty"`
}

// Notifier delivers run outcomes on a best-effort basis. Implementations
// must never fail the pipeline: errors are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NewFromConfig picks an implementation from the webhook URL and the notify
// level ("all", "errors", "off").
func NewFromConfig(webhookURL, level string) Notifier {
	if webhookURL == "" || level == "off" {
		return noop{}
	}
	return &Webhook{
		client:     resty.New().SetTimeout(10 * time.Second),
		url:        webhookURL,
		errorsOnly: level == "errors",
	}
}

type noop struct{}

func (noop) Notify(context.Context, Event) {}

// Webhook posts events to a chat-bot webhook.
type Webhook struct {
	client     *resty.Client
	url        string
	errorsOnly bool
}

func (w *Webhook) Notify(ctx context.Context, ev Event) {
	if w.errorsOnly && ev.OK {
		return
	}
	ev.Text = textutil.TrimToGraphemes(ev.Text, 140)

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(w.url)

	log := logger.Get()
	if err != nil {
		log.Warn().Err(err).Msg("Notification webhook unreachable")
		return
	}
	if resp.IsError() {
		log.Warn().Int("status", resp.StatusCode()).Msg("Notification webhook rejected event")
		return
	}
	log.Debug().Str("post_id", ev.PostID).Msg("Notification delivered")
}
