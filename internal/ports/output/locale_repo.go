package output

import (
	"context"

	"nsmigrate/internal/domain/entities"
)

// LocaleRepository reads and writes the locales/<lang>/<namespace>.json tree.
type LocaleRepository interface {
	// Dir returns the locales directory the repository is rooted at.
	Dir() string
	Languages(ctx context.Context) ([]string, error)
	// Load parses every namespace file of language. Unreadable or malformed
	// files are returned as FileErrors and skipped.
	Load(ctx context.Context, language string) ([]entities.NamespaceFile, []entities.FileError, error)
	Write(ctx context.Context, file entities.NamespaceFile, backup entities.BackupMode) error
	Remove(ctx context.Context, language, namespace string, backup entities.BackupMode) error
	// Backup copies every language directory into a new timestamped sibling
	// directory and returns its path.
	Backup(ctx context.Context) (string, error)
	// LatestBackup returns the newest backup directory.
	LatestBackup(ctx context.Context) (string, error)
	// Snapshot collects the keys of every namespace file under dir.
	Snapshot(ctx context.Context, dir string) (entities.Snapshot, []entities.FileError, error)
}
