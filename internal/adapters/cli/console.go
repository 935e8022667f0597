package cli

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

// console renders operator-facing output. Diagnostics go to zap instead.
type console struct {
	out    io.Writer
	t      output.T
	locale string
	quiet  bool

	title func(a ...interface{}) string
	ok    func(a ...interface{}) string
	warn  func(a ...interface{}) string
	fail  func(a ...interface{}) string
	dim   func(a ...interface{}) string
}

func newConsole(out io.Writer, t output.T, locale string, quiet bool) *console {
	return &console{
		out:    out,
		t:      t,
		locale: locale,
		quiet:  quiet,
		title:  color.New(color.Bold, color.FgCyan).SprintFunc(),
		ok:     color.New(color.FgGreen).SprintFunc(),
		warn:   color.New(color.FgYellow).SprintFunc(),
		fail:   color.New(color.Bold, color.FgRed).SprintFunc(),
		dim:    color.New(color.Faint).SprintFunc(),
	}
}

func (c *console) msg(key string, data map[string]any) string {
	return c.t.T(c.locale, key, data)
}

// line prints a message. A quiet console drops unpainted lines.
func (c *console) line(paint func(a ...interface{}) string, key string, data map[string]any) {
	if c.quiet && paint == nil {
		return
	}
	text := c.msg(key, data)
	if paint != nil {
		text = paint(text)
	}
	fmt.Fprintln(c.out, text)
}

func (c *console) info(key string, data map[string]any) {
	c.line(nil, key, data)
}

func (c *console) fileErrors(errs []entities.FileError) {
	for _, fe := range errs {
		c.line(c.warn, "file_error", map[string]any{"Path": fe.Path, "Error": fe.Err})
	}
}

func (c *console) fatal(text string) {
	fmt.Fprintln(c.out, c.fail(c.msg("fatal", map[string]any{"Error": text})))
}

func (c *console) consolidation(run *entities.Consolidation) {
	if run.BackupPath != "" {
		c.info("consolidate.backup", map[string]any{"Path": run.BackupPath})
	}
	for _, lang := range run.Languages {
		c.line(c.title, "consolidate.language", map[string]any{"Language": lang.Language})
		written, removed := "consolidate.written", "consolidate.removed"
		if run.DryRun {
			written, removed = "consolidate.would_write", "consolidate.would_remove"
		}
		for _, ns := range lang.Written {
			c.info(written, map[string]any{"File": path.Join(lang.Language, ns+".json")})
		}
		for _, ns := range lang.Removed {
			c.info(removed, map[string]any{"File": path.Join(lang.Language, ns+".json")})
		}
		for _, ns := range lang.Missing {
			c.line(c.warn, "consolidate.missing_source", map[string]any{"File": path.Join(lang.Language, ns+".json")})
		}
		for _, w := range lang.Warnings {
			c.line(c.warn, "consolidate.warning", map[string]any{"Warning": w})
		}
		if lang.NestingRewrites > 0 {
			c.info("consolidate.nesting", map[string]any{"Count": lang.NestingRewrites})
		}
	}
	c.fileErrors(run.FileErrors)
	if run.Sources != nil {
		c.rewrite(run.Sources)
	}
	if run.NamespaceList {
		c.info("consolidate.namespace_list", nil)
	}
}

func (c *console) rewrite(res *entities.SourceRewrite) {
	for _, f := range res.Files {
		if f.Changed() {
			c.info("rewrite.file", map[string]any{"File": f.File, "Count": len(f.Replacements)})
		}
	}
	for _, site := range res.Ambiguous() {
		c.line(c.warn, "rewrite.ambiguous", map[string]any{"Site": site.String()})
	}
	c.fileErrors(res.FileErrors)
	changed := 0
	for _, f := range res.Files {
		if f.Changed() {
			changed++
		}
	}
	c.line(c.title, "rewrite.summary", map[string]any{
		"Count":   res.Replacements(),
		"Files":   changed,
		"Scanned": res.FilesScanned,
	})
}

func (c *console) report(report *entities.Report, reportPath string) {
	for _, lang := range report.Languages {
		c.line(c.title, "validate.language", map[string]any{
			"Language":      lang.Language,
			"Original":      lang.OriginalKeys,
			"Current":       lang.CurrentKeys,
			"OriginalFiles": lang.OriginalFiles,
			"CurrentFiles":  lang.CurrentFiles,
		})
		if lang.Moved > 0 {
			c.info("validate.moved", map[string]any{"Count": lang.Moved})
		}
	}
	for _, m := range report.Missing {
		c.line(c.fail, "validate.missing", map[string]any{
			"Language": m.Language, "Key": m.Key, "Files": strings.Join(m.OriginalFiles, ", "),
		})
	}
	for _, n := range report.New {
		c.line(c.warn, "validate.new", map[string]any{
			"Language": n.Language, "Key": n.Key, "Files": strings.Join(n.Files, ", "),
		})
	}
	for _, d := range report.Duplicates {
		c.line(c.warn, "validate.duplicate", map[string]any{
			"Language": d.Language, "Key": d.Key, "Files": strings.Join(d.Files, ", "),
		})
	}
	c.fileErrors(report.FileErrors)
	if reportPath != "" {
		c.info("validate.report", map[string]any{"Path": reportPath})
	}
	if report.Passed() {
		c.line(c.ok, "validate.passed", nil)
		return
	}
	c.line(c.fail, "validate.failed", map[string]any{"Count": len(report.Missing)})
}

func (c *console) gate(res *entities.GateResult) {
	for _, site := range res.OldCallSites {
		c.line(c.fail, "check.old_callsite", map[string]any{"Site": site.String(), "Namespace": site.Namespace})
	}
	for _, f := range res.OldFiles {
		c.line(c.fail, "check.old_file", map[string]any{"File": f})
	}
	for _, f := range res.MissingTargets {
		c.line(c.fail, "check.missing_target", map[string]any{"File": f})
	}
	c.fileErrors(res.FileErrors)
	if res.Passed() {
		c.line(c.ok, "check.passed", nil)
		return
	}
	violations := len(res.OldCallSites) + len(res.OldFiles) + len(res.MissingTargets)
	c.line(c.fail, "check.failed", map[string]any{"Count": violations})
}

func (c *console) history(runs []entities.RunSummary) {
	if len(runs) == 0 {
		c.info("history.empty", nil)
		return
	}
	for _, r := range runs {
		status := c.ok(c.msg("history.passed", nil))
		if !r.Passed {
			status = c.fail(c.msg("history.failed", nil))
		}
		fmt.Fprintf(c.out, "%s  %s  %s  missing=%d moved=%d new=%d duplicates=%d\n",
			c.dim(r.GeneratedAt.Local().Format(time.DateTime)), r.RunID, status,
			r.Missing, r.Moved, r.New, r.Duplicates)
	}
}

// progress returns a bar advanced once per source file, or nil when quiet.
func (c *console) progress(description string) func(done, total int) {
	if c.quiet {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(c.out),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}))
		}
		_ = bar.Set(done)
		if done == total {
			_ = bar.Finish()
		}
	}
}
