package entities

import (
	"path/filepath"
	"sort"
	"strings"
)

// NamespaceFile is one translation document: locales/<Language>/<Namespace>.json.
type NamespaceFile struct {
	Language  string
	Namespace string
	Tree      *Tree
}

// FileName returns the on-disk name of the namespace file.
func (f NamespaceFile) FileName() string {
	return f.Namespace + ".json"
}

// FileError records a file that could not be read or parsed. Such files are
// skipped, never fatal.
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Namespace returns the namespace of the failing locale file.
func (e FileError) Namespace() string {
	return strings.TrimSuffix(filepath.Base(e.Path), ".json")
}

// KeyRecord ties a dotted key to the file it was found in.
type KeyRecord struct {
	Key  string
	File string
}

// FileKeys maps a file name to its dotted keys in document order.
type FileKeys map[string][]string

// Files returns the file names in sorted order.
func (fk FileKeys) Files() []string {
	out := make([]string, 0, len(fk))
	for f := range fk {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Records flattens the mapping into key records, ordered by file name then
// by document order.
func (fk FileKeys) Records() []KeyRecord {
	var out []KeyRecord
	for _, f := range fk.Files() {
		for _, k := range fk[f] {
			out = append(out, KeyRecord{Key: k, File: f})
		}
	}
	return out
}

// Snapshot captures the key layout of a locales directory: language -> file
// -> keys.
type Snapshot map[string]FileKeys

// Languages returns the languages in sorted order.
func (s Snapshot) Languages() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// SnapshotOf collects the keys of every namespace file.
func SnapshotOf(files []NamespaceFile) Snapshot {
	snap := make(Snapshot)
	for _, f := range files {
		fk, ok := snap[f.Language]
		if !ok {
			fk = make(FileKeys)
			snap[f.Language] = fk
		}
		fk[f.FileName()] = CollectKeys(f.Tree)
	}
	return snap
}
