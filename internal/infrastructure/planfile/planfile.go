// Package planfile loads consolidation plans from TOML or YAML files.
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
)

// Format is a plan file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unsupported plan file %q (want .toml, .yaml or .yml)", domain.ErrInvalidPlan, path)
}

type planFile struct {
	MergePolicy string            `toml:"merge_policy" yaml:"merge_policy"`
	Renames     map[string]string `toml:"renames" yaml:"renames"`
	Merges      []mergeFile       `toml:"merge" yaml:"merge"`
	Splits      []splitFile       `toml:"split" yaml:"split"`
	Source      sourceFile        `toml:"source" yaml:"source"`
}

type mergeFile struct {
	Target  string   `toml:"target" yaml:"target"`
	Sources []string `toml:"sources" yaml:"sources"`
}

type splitFile struct {
	Source string     `toml:"source" yaml:"source"`
	Rules  []ruleFile `toml:"rule" yaml:"rule"`
}

type ruleFile struct {
	Target   string   `toml:"target" yaml:"target"`
	Prefixes []string `toml:"prefixes" yaml:"prefixes"`
}

type sourceFile struct {
	Extensions        []string `toml:"extensions" yaml:"extensions"`
	Exclude           []string `toml:"exclude" yaml:"exclude"`
	NamespaceCallees  []string `toml:"namespace_callees" yaml:"namespace_callees"`
	KeyCallees        []string `toml:"key_callees" yaml:"key_callees"`
	NamespaceListFile string   `toml:"namespace_list_file" yaml:"namespace_list_file"`
	NamespaceListVar  string   `toml:"namespace_list_var" yaml:"namespace_list_var"`
}

// Load reads and validates the plan stored at path.
func Load(path string) (*entities.Plan, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	plan, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Parse decodes and validates a plan. Unknown fields are rejected.
func Parse(data []byte, format Format) (*entities.Plan, error) {
	var pf planFile
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pf); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPlan, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPlan, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidPlan, format)
	}

	plan := pf.toPlan()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func (pf planFile) toPlan() *entities.Plan {
	plan := &entities.Plan{
		MergePolicy: entities.MergePolicy(pf.MergePolicy),
		Source:      pf.Source.toOptions(),
	}
	for _, s := range pf.Splits {
		split := entities.Split{Source: s.Source}
		for _, r := range s.Rules {
			split.Rules = append(split.Rules, entities.SplitRule{Target: r.Target, Prefixes: r.Prefixes})
		}
		plan.Splits = append(plan.Splits, split)
	}
	for _, m := range pf.Merges {
		plan.Merges = append(plan.Merges, entities.Merge{Target: m.Target, Sources: m.Sources})
	}

	// A rename is a merge with a single source. Renames into a declared
	// merge target join that merge.
	olds := make([]string, 0, len(pf.Renames))
	for old := range pf.Renames {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	for _, old := range olds {
		target := pf.Renames[old]
		joined := false
		for i := range plan.Merges {
			if plan.Merges[i].Target == target {
				plan.Merges[i].Sources = append(plan.Merges[i].Sources, old)
				joined = true
				break
			}
		}
		if !joined {
			plan.Merges = append(plan.Merges, entities.Merge{Target: target, Sources: []string{old}})
		}
	}
	return plan
}

func (sf sourceFile) toOptions() entities.SourceOptions {
	opts := entities.DefaultSourceOptions()
	if sf.Extensions != nil {
		opts.Extensions = sf.Extensions
	}
	if sf.Exclude != nil {
		opts.Exclude = sf.Exclude
	}
	if sf.NamespaceCallees != nil {
		opts.NamespaceCallees = sf.NamespaceCallees
	}
	if sf.KeyCallees != nil {
		opts.KeyCallees = sf.KeyCallees
	}
	if sf.NamespaceListFile != "" {
		opts.NamespaceListFile = sf.NamespaceListFile
	}
	if sf.NamespaceListVar != "" {
		opts.NamespaceListVar = sf.NamespaceListVar
	}
	return opts
}
