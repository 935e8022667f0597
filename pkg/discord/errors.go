package discord

import (
	"nsmigrate/internal/domain"
	"nsmigrate/internal/ports/output"
)

// TranslateDomainError maps a domain error code to a user-facing message.
func TranslateDomainError(code string, t output.T, locale string) string {
	key := "error." + code
	if msg := t.T(locale, key, nil); msg != key {
		return msg
	}
	return ""
}

// DomainErrorMessage resolves err to a user-facing message: the localized
// text of its domain code when it has one, followed by the error itself.
func DomainErrorMessage(err error, t output.T, locale string) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		if msg := TranslateDomainError(code, t, locale); msg != "" {
			return msg + " (" + err.Error() + ")"
		}
	}
	return err.Error()
}
