package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

const (
	colorPassed = 0x57F287
	colorFailed = 0xED4245
	// maxListed caps the missing keys listed in the embed description.
	maxListed = 10
)

func countField(name string, n int) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: fmt.Sprintf("%d", n), Inline: true}
}

// BuildReportEmbed summarises a validation report for a webhook post.
func BuildReportEmbed(report *entities.Report, t output.T, locale string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: t.T(locale, "notify.title", nil),
		Color: colorPassed,
		Fields: []*discordgo.MessageEmbedField{
			countField(t.T(locale, "notify.field.missing", nil), len(report.Missing)),
			countField(t.T(locale, "notify.field.moved", nil), len(report.Moved)),
			countField(t.T(locale, "notify.field.new", nil), len(report.New)),
			countField(t.T(locale, "notify.field.duplicates", nil), len(report.Duplicates)),
		},
		Footer: &discordgo.MessageEmbedFooter{Text: report.RunID},
	}
	if !report.GeneratedAt.IsZero() {
		embed.Timestamp = report.GeneratedAt.UTC().Format(time.RFC3339)
	}

	if report.Passed() {
		embed.Description = t.T(locale, "notify.passed", nil)
		return embed
	}
	embed.Color = colorFailed
	var b strings.Builder
	b.WriteString(t.T(locale, "notify.failed", map[string]any{"Count": len(report.Missing)}))
	for i, m := range report.Missing {
		if i == maxListed {
			b.WriteString(fmt.Sprintf("\n… +%d", len(report.Missing)-maxListed))
			break
		}
		b.WriteString(fmt.Sprintf("\n- `%s:%s`", m.Language, m.Key))
	}
	embed.Description = b.String()
	return embed
}

// BuildErrorEmbed reports a run that aborted.
func BuildErrorEmbed(err error, t output.T, locale string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       t.T(locale, "notify.title", nil),
		Description: DomainErrorMessage(err, t, locale),
		Color:       colorFailed,
	}
}
