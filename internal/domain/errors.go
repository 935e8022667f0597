package domain

import "errors"

// Domain errors.
var (
	ErrInvalidPlan        = errors.New("invalid consolidation plan")
	ErrInvalidTree        = errors.New("translation file must hold a JSON object")
	ErrLocalesNotFound    = errors.New("locales directory not found")
	ErrNoBackup           = errors.New("no backup directory found")
	ErrKeysMissing        = errors.New("keys missing after migration")
	ErrOldNamespacesFound = errors.New("old namespaces still referenced")
	ErrUnsupportedSource  = errors.New("unsupported source file type")
	ErrStoreDisabled      = errors.New("report store is not configured")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidPlan, "invalid_plan"},
	{ErrInvalidTree, "invalid_tree"},
	{ErrLocalesNotFound, "locales_not_found"},
	{ErrNoBackup, "no_backup"},
	{ErrKeysMissing, "keys_missing"},
	{ErrOldNamespacesFound, "old_namespaces_found"},
	{ErrUnsupportedSource, "unsupported_source"},
	{ErrStoreDisabled, "store_disabled"},
	{ErrInvalidConfig, "invalid_config"},
}

// Code returns the stable code of the domain error wrapped by err, or "" when
// err does not wrap one.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
