package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
)

type keyT struct{}

func (keyT) T(_, key string, _ map[string]any) string { return "<" + key + ">" }

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/1234/abcd-efg")
	require.NoError(t, err)
	assert.Equal(t, "1234", id)
	assert.Equal(t, "abcd-efg", token)

	for _, bad := range []string{"https://discord.com/api/channels/1", "https://discord.com/api/webhooks/1", "://"} {
		_, _, err := ParseWebhookURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestWebhookNotifier_NotifyReport(t *testing.T) {
	var got struct {
		path   string
		params discordgo.WebhookParams
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got.params)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	orig := discordgo.EndpointWebhookToken
	discordgo.EndpointWebhookToken = func(id, token string) string { return srv.URL + "/webhooks/" + id + "/" + token }
	defer func() { discordgo.EndpointWebhookToken = orig }()

	n, err := NewWebhookNotifier("https://discord.com/api/webhooks/42/secret", keyT{}, "en", zap.NewNop())
	require.NoError(t, err)

	report := &entities.Report{RunID: "run-7", Missing: []entities.MissingKey{{Language: "en", Key: "gone"}}}
	require.NoError(t, n.NotifyReport(context.Background(), report))

	assert.Equal(t, "/webhooks/42/secret", got.path)
	require.Len(t, got.params.Embeds, 1)
	assert.Equal(t, "<notify.title>", got.params.Embeds[0].Title)
	assert.Contains(t, got.params.Embeds[0].Description, "`en:gone`")

	require.NoError(t, n.NotifyError(context.Background(), domain.ErrNoBackup))
	require.Len(t, got.params.Embeds, 1)
	assert.Contains(t, got.params.Embeds[0].Description, "<error.no_backup>")
}

func TestWebhookNotifier_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid Webhook Token","code":50027}`))
	}))
	defer srv.Close()

	orig := discordgo.EndpointWebhookToken
	discordgo.EndpointWebhookToken = func(id, token string) string { return srv.URL + "/webhooks/" + id + "/" + token }
	defer func() { discordgo.EndpointWebhookToken = orig }()

	n, err := NewWebhookNotifier("https://discord.com/api/webhooks/42/secret", keyT{}, "en", zap.NewNop())
	require.NoError(t, err)

	err = n.NotifyReport(context.Background(), &entities.Report{})
	assert.ErrorContains(t, err, "discord webhook")
}
