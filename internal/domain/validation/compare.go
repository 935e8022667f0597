// Package validation diffs key snapshots taken before and after a migration.
package validation

import (
	"sort"

	"github.com/samber/lo"

	"nsmigrate/internal/domain/entities"
)

// Compare diffs before against after, language by language. The returned
// report has no run id, timestamp or directory fields set.
func Compare(before, after entities.Snapshot) *entities.Report {
	report := &entities.Report{}
	languages := lo.Uniq(append(before.Languages(), after.Languages()...))
	sort.Strings(languages)

	for _, lang := range languages {
		compareLanguage(report, lang, before[lang], after[lang])
	}
	return report
}

type keyIndex struct {
	order []string
	files map[string][]string
}

func index(fk entities.FileKeys) keyIndex {
	idx := keyIndex{files: make(map[string][]string)}
	for _, rec := range fk.Records() {
		if _, ok := idx.files[rec.Key]; !ok {
			idx.order = append(idx.order, rec.Key)
		}
		idx.files[rec.Key] = append(idx.files[rec.Key], rec.File)
	}
	return idx
}

func compareLanguage(report *entities.Report, lang string, before, after entities.FileKeys) {
	b := index(before)
	a := index(after)
	summary := entities.LanguageSummary{
		Language:      lang,
		OriginalKeys:  len(b.order),
		CurrentKeys:   len(a.order),
		OriginalFiles: len(before),
		CurrentFiles:  len(after),
	}

	for _, key := range b.order {
		from := b.files[key]
		to, ok := a.files[key]
		if !ok {
			report.Missing = append(report.Missing, entities.MissingKey{Language: lang, Key: key, OriginalFiles: from})
			summary.Missing++
			continue
		}
		if len(lo.Intersect(from, to)) == 0 {
			report.Moved = append(report.Moved, entities.MovedKey{Language: lang, Key: key, From: from, To: to})
			summary.Moved++
		}
	}

	for _, key := range a.order {
		files := a.files[key]
		if _, ok := b.files[key]; !ok {
			report.New = append(report.New, entities.NewKey{Language: lang, Key: key, Files: files})
			summary.New++
		}
		if len(files) > 1 {
			report.Duplicates = append(report.Duplicates, entities.DuplicateKey{Language: lang, Key: key, Files: files})
			summary.Duplicates++
		}
	}

	beforeFiles := before.Files()
	afterFiles := after.Files()
	summary.RemovedFiles = lo.Without(beforeFiles, afterFiles...)
	summary.AddedFiles = lo.Without(afterFiles, beforeFiles...)
	report.Languages = append(report.Languages, summary)
}
