package entities

import "time"

// MissingKey is a key present before the migration and absent after it.
type MissingKey struct {
	Language      string   `json:"lang"`
	Key           string   `json:"key"`
	OriginalFiles []string `json:"originalFiles"`
}

// MovedKey is a key that now lives in none of the files it came from.
type MovedKey struct {
	Language string   `json:"lang"`
	Key      string   `json:"key"`
	From     []string `json:"from"`
	To       []string `json:"to"`
}

// NewKey is a key present after the migration only.
type NewKey struct {
	Language string   `json:"lang"`
	Key      string   `json:"key"`
	Files    []string `json:"files"`
}

// DuplicateKey is a key found in more than one file after the migration.
type DuplicateKey struct {
	Language string   `json:"lang"`
	Key      string   `json:"key"`
	Files    []string `json:"files"`
}

// LanguageSummary holds the per-language counters of a validation.
type LanguageSummary struct {
	Language      string   `json:"lang"`
	OriginalKeys  int      `json:"originalKeyCount"`
	CurrentKeys   int      `json:"currentKeyCount"`
	Missing       int      `json:"missingKeys"`
	Moved         int      `json:"movedKeys"`
	New           int      `json:"newKeys"`
	Duplicates    int      `json:"duplicateKeys"`
	OriginalFiles int      `json:"originalFiles"`
	CurrentFiles  int      `json:"currentFiles"`
	RemovedFiles  []string `json:"removedFiles,omitempty"`
	AddedFiles    []string `json:"addedFiles,omitempty"`
}

// Report is the outcome of comparing a before and an after snapshot.
type Report struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"timestamp"`
	Before      string            `json:"before"`
	After       string            `json:"after"`
	Languages   []LanguageSummary `json:"languages"`
	Missing     []MissingKey      `json:"missingKeys"`
	Moved       []MovedKey        `json:"movedKeys"`
	New         []NewKey          `json:"newKeys"`
	Duplicates  []DuplicateKey    `json:"duplicateKeys"`
	FileErrors  []FileError       `json:"fileErrors,omitempty"`
}

// Passed reports whether no key was lost. Moved, new and duplicate keys are
// warnings only.
func (r *Report) Passed() bool {
	return len(r.Missing) == 0
}
