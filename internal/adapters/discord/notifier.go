// Package discord posts migration reports to a Discord channel webhook.
package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
	pkgdiscord "nsmigrate/pkg/discord"
)

var _ output.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier implements output.Notifier with a channel webhook; no bot
// token is needed.
type WebhookNotifier struct {
	session *discordgo.Session
	id      string
	token   string
	t       output.T
	locale  string
	logger  *zap.Logger
}

// ParseWebhookURL extracts the id and token of
// https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook url: %q is not a webhook url", raw)
}

func NewWebhookNotifier(rawURL string, t output.T, locale string, logger *zap.Logger) (*WebhookNotifier, error) {
	id, token, err := ParseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &WebhookNotifier{
		session: session,
		id:      id,
		token:   token,
		t:       t,
		locale:  locale,
		logger:  logger,
	}, nil
}

func (n *WebhookNotifier) NotifyReport(ctx context.Context, report *entities.Report) error {
	return n.post(ctx, pkgdiscord.BuildReportEmbed(report, n.t, n.locale))
}

// NotifyError announces a run that aborted with err.
func (n *WebhookNotifier) NotifyError(ctx context.Context, err error) error {
	return n.post(ctx, pkgdiscord.BuildErrorEmbed(err, n.t, n.locale))
}

func (n *WebhookNotifier) post(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := n.session.WebhookExecute(n.id, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	n.logger.Debug("report posted to discord", zap.String("webhook", n.id))
	return nil
}
