// Package mapping decodes component mapping results.
//
// A mapping result is the output of a component analyzer: it names the
// values a UI component reads (props, context, refs), the state it owns,
// derived variables, side-effect hooks, the JSX tree it returns and the
// external functions it calls. compgraph never analyzes source code itself;
// it consumes mapping results as JSON or YAML documents:
//
//	component: TodoList
//	independents:
//	  - name: items
//	states:
//	  - name: filter
//	    setter: setFilter
//	variables:
//	  - name: visible
//	    deps: [items, filter]
//	jsx:
//	  - id: list
//	    tag: ul
//	  - id: item
//	    tag: li
//	    parent: list
//	    uses: [visible]
//
// Names are references: every dependency, mutation, use and user names
// another entry of the same result. Unknown names are tolerated here and
// reported when the graph is built.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/compgraph/pkg/errors"
)

// Format identifies the encoding of a mapping document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Independent is a value the component receives rather than owns.
type Independent struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// State is a value owned by the component.
type State struct {
	Name   string   `json:"name" yaml:"name"`
	Setter string   `json:"setter,omitempty" yaml:"setter,omitempty"`
	Deps   []string `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Variable is a value derived during render.
type Variable struct {
	Name string   `json:"name" yaml:"name"`
	Deps []string `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Effect is a side-effect hook.
type Effect struct {
	Name    string   `json:"name" yaml:"name"`
	Deps    []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Mutates []string `json:"mutates,omitempty" yaml:"mutates,omitempty"`
}

// Element is a node of the returned JSX tree. Parent names another
// element's ID; an empty Parent makes the element a root.
type Element struct {
	ID     string   `json:"id" yaml:"id"`
	Tag    string   `json:"tag" yaml:"tag"`
	Parent string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Uses   []string `json:"uses,omitempty" yaml:"uses,omitempty"`
}

// External is an imported function or module and the entries that call it.
type External struct {
	Name  string   `json:"name" yaml:"name"`
	Users []string `json:"users,omitempty" yaml:"users,omitempty"`
}

// Result is a decoded mapping result.
type Result struct {
	Component    string        `json:"component" yaml:"component"`
	Independents []Independent `json:"independents,omitempty" yaml:"independents,omitempty"`
	States       []State       `json:"states,omitempty" yaml:"states,omitempty"`
	Variables    []Variable    `json:"variables,omitempty" yaml:"variables,omitempty"`
	Effects      []Effect      `json:"effects,omitempty" yaml:"effects,omitempty"`
	JSX          []Element     `json:"jsx,omitempty" yaml:"jsx,omitempty"`
	Externals    []External    `json:"externals,omitempty" yaml:"externals,omitempty"`
}

// IsEmpty reports whether the result describes nothing to draw.
// A nil result is empty.
func (r *Result) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.Independents) == 0 && len(r.States) == 0 && len(r.Variables) == 0 &&
		len(r.Effects) == 0 && len(r.JSX) == 0 && len(r.Externals) == 0
}

// Count returns the number of entries across all sections.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Independents) + len(r.States) + len(r.Variables) +
		len(r.Effects) + len(r.JSX) + len(r.Externals)
}

// Validate checks that every entry has a usable name and that names are
// unique across sections.
func (r *Result) Validate() error {
	if r == nil {
		return nil
	}
	seen := make(map[string]string)
	check := func(section, name string) error {
		if err := errors.ValidateName(name); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: %s", section, errors.UserMessage(err))
		}
		if prev, dup := seen[name]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "%s %q already declared in %s", section, name, prev)
		}
		seen[name] = section
		return nil
	}

	for _, v := range r.Independents {
		if err := check("independents", v.Name); err != nil {
			return err
		}
	}
	for _, v := range r.States {
		if err := check("states", v.Name); err != nil {
			return err
		}
	}
	for _, v := range r.Variables {
		if err := check("variables", v.Name); err != nil {
			return err
		}
	}
	for _, v := range r.Effects {
		if err := check("effects", v.Name); err != nil {
			return err
		}
	}
	for _, v := range r.JSX {
		if err := errors.ValidateID(v.ID); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "jsx: %s", errors.UserMessage(err))
		}
		if err := check("jsx", v.ID); err != nil {
			return err
		}
	}
	for _, v := range r.Externals {
		if err := check("externals", v.Name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Decoding
// =============================================================================

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer mapping format from %q (want .json, .yaml or .yml)", path)
}

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown mapping format %q", s)
}

// Read decodes a mapping result in the given format and validates it.
func Read(r io.Reader, format Format) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a mapping result from bytes.
func Parse(data []byte, format Format) (*Result, error) {
	var res Result
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json mapping")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&res); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml mapping")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown mapping format %q", format)
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// ReadFile reads a mapping result, inferring the format from the extension.
func ReadFile(path string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mapping %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
