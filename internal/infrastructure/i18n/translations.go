package i18n

import (
	"embed"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"nsmigrate/internal/ports/output"
)

//go:embed active.*.toml
var catalogFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator renders the console and webhook messages of a migration run.
// The console language is matched against the embedded catalogs once per
// locale, so "fr-CA" resolves to the French catalog.
type Translator struct {
	bundle     *i18n.Bundle
	matcher    language.Matcher
	supported  []language.Tag
	fallback   language.Tag
	localizers map[language.Tag]*i18n.Localizer
	logger     *zap.Logger
}

// NewTranslator loads the embedded active.*.toml catalogs. defaultLocale
// picks the catalog used when a message names no locale or an unsupported
// one; it falls back to English when no catalog matches it.
func NewTranslator(defaultLocale string, logger *zap.Logger) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(catalogFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(catalogFS, file); err != nil {
			logger.Warn("message catalog not loaded", zap.String("file", file), zap.Error(err))
		}
	}

	t := &Translator{
		bundle:     bundle,
		fallback:   language.English,
		localizers: make(map[language.Tag]*i18n.Localizer),
		logger:     logger,
	}
	t.supported = bundle.LanguageTags()
	t.matcher = language.NewMatcher(t.supported)
	if tag, ok := t.match(defaultLocale); ok {
		t.fallback = tag
	}
	for _, tag := range t.supported {
		t.localizers[tag] = i18n.NewLocalizer(bundle, tag.String(), t.fallback.String(), language.English.String())
	}
	return t
}

// Languages returns the tags a catalog was loaded for.
func (t *Translator) Languages() []language.Tag {
	return t.supported
}

// Resolve returns the catalog language used for locale.
func (t *Translator) Resolve(locale string) language.Tag {
	if tag, ok := t.match(locale); ok {
		return tag
	}
	return t.fallback
}

func (t *Translator) match(locale string) (language.Tag, bool) {
	if locale == "" || len(t.supported) == 0 {
		return language.Und, false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return t.supported[idx], true
}

// T renders the message identified by key in the catalog matching locale.
// A message absent from that catalog comes from the default one; an
// unknown key renders as the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	tag := t.Resolve(locale)
	localizer, ok := t.localizers[tag]
	if !ok {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("message not localized", zap.String("key", key), zap.Stringer("language", tag), zap.Error(err))
		return key
	}
	return msg
}
