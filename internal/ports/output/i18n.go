package output

// T looks up operator-facing messages (console lines, webhook embeds).
type T interface {
	// T renders message key in locale. data fills the template placeholders
	// and may be nil. Unknown keys render as the key itself.
	T(locale, key string, data map[string]any) string
}
