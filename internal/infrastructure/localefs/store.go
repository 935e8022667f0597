// Package localefs stores translation files on disk, one directory per
// language and one JSON document per namespace.
package localefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

const (
	fileExt      = ".json"
	backupSuffix = ".backup"
	backupInfix  = ".backup."
)

var _ output.LocaleRepository = (*Store)(nil)

// Store is a LocaleRepository over a locales directory.
type Store struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces the clock used to name backup directories.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(dir string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{dir: filepath.Clean(dir), logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the locales directory.
func (s *Store) Dir() string {
	return s.dir
}

// Languages lists the language directories of the locales directory.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	return languages(s.dir)
}

// languages lists the language directories of root in sorted order.
// Directories whose name mentions "backup" or is not a BCP 47 tag are
// skipped.
func languages(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLocalesNotFound, root)
		}
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || strings.Contains(strings.ToLower(name), "backup") {
			continue
		}
		if _, err := language.Parse(name); err != nil {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Load parses every namespace file of lang. Unparseable files are
// returned as FileErrors instead of failing the load.
func (s *Store) Load(ctx context.Context, lang string) ([]entities.NamespaceFile, []entities.FileError, error) {
	return s.load(ctx, s.dir, lang)
}

func (s *Store) load(ctx context.Context, root, lang string) ([]entities.NamespaceFile, []entities.FileError, error) {
	dir := filepath.Join(root, lang)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read language dir %s: %w", lang, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var files []entities.NamespaceFile
	var fileErrs []entities.FileError
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, name)
		tree, err := readTree(path)
		if err != nil {
			s.logger.Warn("skipping translation file", zap.String("path", path), zap.Error(err))
			fileErrs = append(fileErrs, entities.FileError{Path: path, Err: err.Error()})
			continue
		}
		files = append(files, entities.NamespaceFile{
			Language:  lang,
			Namespace: strings.TrimSuffix(name, fileExt),
			Tree:      tree,
		})
	}
	return files, fileErrs, nil
}

func readTree(path string) (*entities.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return entities.ParseTree(data)
}

func (s *Store) path(lang, namespace string) string {
	return filepath.Join(s.dir, lang, namespace+fileExt)
}

// Write encodes file to <dir>/<lang>/<namespace>.json, first copying the
// current file to a .backup sibling when backup is BackupFile.
func (s *Store) Write(ctx context.Context, file entities.NamespaceFile, backup entities.BackupMode) error {
	data, err := file.Tree.Encode()
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", file.Language, file.FileName(), err)
	}
	path := s.path(file.Language, file.Namespace)
	if backup == entities.BackupFile {
		if err := copyIfExists(path, path+backupSuffix); err != nil {
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("wrote namespace file", zap.String("path", path), zap.Int("keys", len(entities.CollectKeys(file.Tree))))
	return nil
}

// Remove deletes a namespace file, or renames it to its .backup sibling
// when backup is BackupFile. A missing file is not an error.
func (s *Store) Remove(ctx context.Context, lang, namespace string, backup entities.BackupMode) error {
	path := s.path(lang, namespace)
	var err error
	if backup == entities.BackupFile {
		err = os.Rename(path, path+backupSuffix)
	} else {
		err = os.Remove(path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	s.logger.Debug("removed namespace file", zap.String("path", path))
	return nil
}

// BackupName returns the backup directory name for t:
// <locales>.backup.<ISO 8601 with ':' and '.' replaced by '-'>.
func BackupName(dir string, t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return filepath.Base(dir) + backupInfix + stamp
}

// Backup copies every language directory to a timestamped directory next
// to the locales directory and returns its path.
func (s *Store) Backup(ctx context.Context) (string, error) {
	langs, err := languages(s.dir)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(filepath.Dir(s.dir), BackupName(s.dir, s.now()))
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := os.CopyFS(filepath.Join(dst, lang), os.DirFS(filepath.Join(s.dir, lang))); err != nil {
			return "", fmt.Errorf("backup %s: %w", lang, err)
		}
	}
	s.logger.Info("backup created", zap.String("path", dst), zap.Strings("languages", langs))
	return dst, nil
}

// LatestBackup returns the newest backup directory of the locales directory.
func (s *Store) LatestBackup(ctx context.Context) (string, error) {
	parent := filepath.Dir(s.dir)
	prefix := filepath.Base(s.dir) + backupInfix
	entries, err := os.ReadDir(parent)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", parent, err)
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: no %s* directory next to %s", domain.ErrNoBackup, prefix, s.dir)
	}
	return filepath.Join(parent, latest), nil
}

// Snapshot loads the keys of every language under dir.
func (s *Store) Snapshot(ctx context.Context, dir string) (entities.Snapshot, []entities.FileError, error) {
	langs, err := languages(dir)
	if err != nil {
		return nil, nil, err
	}
	var all []entities.NamespaceFile
	var fileErrs []entities.FileError
	for _, lang := range langs {
		files, errs, err := s.load(ctx, dir, lang)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, files...)
		fileErrs = append(fileErrs, errs...)
	}
	snap := entities.SnapshotOf(all)
	// Languages whose files all failed still count as present.
	for _, lang := range langs {
		if _, ok := snap[lang]; !ok {
			snap[lang] = entities.FileKeys{}
		}
	}
	return snap, fileErrs, nil
}

func copyIfExists(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
