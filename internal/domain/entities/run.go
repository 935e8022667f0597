package entities

import (
	"fmt"
	"time"

	"nsmigrate/internal/domain"
)

// BackupMode selects how pre-migration state is preserved.
type BackupMode string

const (
	// BackupDir copies every language directory into a timestamped sibling
	// of the locales directory before anything is written.
	BackupDir BackupMode = "dir"
	// BackupFile copies each file to <file>.backup before overwriting or
	// removing it.
	BackupFile BackupMode = "file"
	// BackupNone keeps no copy.
	BackupNone BackupMode = "none"
)

// ParseBackupMode validates a backup mode name; "" selects BackupDir.
func ParseBackupMode(s string) (BackupMode, error) {
	switch BackupMode(s) {
	case "":
		return BackupDir, nil
	case BackupDir, BackupFile, BackupNone:
		return BackupMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown backup mode %q", domain.ErrInvalidConfig, s)
}

// ConsolidateOptions drive one consolidation run.
type ConsolidateOptions struct {
	DryRun      bool
	SkipSources bool
	Backup      BackupMode
}

// LanguageResult is what a consolidation did to one language directory.
type LanguageResult struct {
	Language        string
	Written         []string
	Removed         []string
	Missing         []string
	Warnings        []string
	NestingRewrites int
}

// Consolidation summarises a consolidation run.
type Consolidation struct {
	RunID      string
	DryRun     bool
	BackupPath string
	Languages  []LanguageResult
	FileErrors []FileError
	Sources    *SourceRewrite
	// NamespaceList is true when the namespace list of the i18n config
	// file was rewritten.
	NamespaceList bool
	Report        *Report
}

// SourceRewrite summarises a source rewriting pass.
type SourceRewrite struct {
	DryRun       bool
	FilesScanned int
	Files        []RewriteResult
	FileErrors   []FileError
}

// Replacements returns the total number of rewritten call sites.
func (s *SourceRewrite) Replacements() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Replacements)
	}
	return n
}

// Ambiguous returns every call site left untouched.
func (s *SourceRewrite) Ambiguous() []CallSite {
	var out []CallSite
	for _, f := range s.Files {
		out = append(out, f.Ambiguous...)
	}
	return out
}

// GateResult lists what still refers to the pre-migration layout.
type GateResult struct {
	OldCallSites   []CallSite
	OldFiles       []string
	MissingTargets []string
	FileErrors     []FileError
}

// Passed reports whether no violation was found.
func (g *GateResult) Passed() bool {
	return len(g.OldCallSites) == 0 && len(g.OldFiles) == 0 && len(g.MissingTargets) == 0
}

// RunSummary is a stored validation run.
type RunSummary struct {
	RunID       string
	GeneratedAt time.Time
	Passed      bool
	Missing     int
	Moved       int
	New         int
	Duplicates  int
}
