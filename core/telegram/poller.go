package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/subbot/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

// PollTimeout is the configured long-poll timeout, or the default when unset.
func PollTimeout(tc coreconfig.TelegramConfig) time.Duration {
	if tc.LongPollTimeoutSeconds <= 0 {
		return defaultLongPollTimeout
	}
	return time.Duration(tc.LongPollTimeoutSeconds) * time.Second
}

// BuildPoller picks the update source for cfg. Any mode other than webhook
// means long polling.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(cfg.Telegram.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:   cfg.Webhook.Addr(),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: PollTimeout(cfg.Telegram)}
}
