package entities

import "fmt"

// CallKind tells how the namespace appears in a call.
type CallKind string

const (
	// CallNamespace is a namespace-only argument: useTranslation('ns').
	CallNamespace CallKind = "namespace"
	// CallKey is a namespaced key: t('ns:key').
	CallKey CallKind = "key"
	// CallOption is the ns option of a key call: t('key', { ns: 'ns' }).
	CallOption CallKind = "option"
)

// CallSite is a namespace literal found inside a recognised call.
type CallSite struct {
	File      string
	Line      int
	Column    int
	Callee    string
	Kind      CallKind
	Namespace string
	Key       string
	Quote     byte
	// Start and End delimit the namespace text (without quotes) in the file.
	Start int
	End   int
}

func (c CallSite) String() string {
	if c.Key != "" {
		return fmt.Sprintf("%s:%d:%d %s(%c%s:%s%c)", c.File, c.Line, c.Column, c.Callee, c.Quote, c.Namespace, c.Key, c.Quote)
	}
	return fmt.Sprintf("%s:%d:%d %s(%c%s%c)", c.File, c.Line, c.Column, c.Callee, c.Quote, c.Namespace, c.Quote)
}

// Replacement is a rewritten call site.
type Replacement struct {
	Site CallSite
	To   string
}

// RewriteResult summarises the rewrite of one source file.
type RewriteResult struct {
	File         string
	Replacements []Replacement
	// Ambiguous lists call sites left untouched because the old namespace
	// splits into several targets and the call names no key.
	Ambiguous []CallSite
}

// Changed reports whether the file content was modified.
func (r RewriteResult) Changed() bool {
	return len(r.Replacements) > 0
}
