package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// SlackNotifier sends notifications to Slack via a Webhook.
type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
}

// NewSlackNotifier creates a new SlackNotifier.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts message to the configured webhook, both as fallback text and as
// a markdown section block.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is not configured")
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	msg := &slack.WebhookMessage{
		Text: message,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, message, false, false), nil, nil),
			},
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.WebhookURL, client, msg); err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}
