package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/mapping"
)

// input is a decoded command argument: either a mapping result or a
// layout produced by an earlier command.
type input struct {
	path    string
	mapping *mapping.Result
	layout  *graph.Layout
}

// name returns the component name, or the file name for layouts.
func (in input) name() string {
	if in.mapping != nil && in.mapping.Component != "" {
		return in.mapping.Component
	}
	return strings.TrimSuffix(filepath.Base(in.path), filepath.Ext(in.path))
}

// loadInput reads path. YAML files are always mapping results; JSON files
// are layouts when they carry a top-level "nodes" key.
func loadInput(path string) (input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return input{}, err
	}

	format, err := mapping.FormatFromPath(path)
	if err != nil {
		return input{}, err
	}
	if format == mapping.FormatJSON && isLayout(data) {
		l, err := graph.UnmarshalLayout(data)
		if err != nil {
			return input{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout %s", path)
		}
		return input{path: path, layout: &l}, nil
	}

	m, err := mapping.Parse(data, format)
	if err != nil {
		return input{}, err
	}
	return input{path: path, mapping: m}, nil
}

// loadLayout reads path and requires it to be a layout.
func loadLayout(path string) (input, error) {
	in, err := loadInput(path)
	if err != nil {
		return input{}, err
	}
	if in.layout == nil {
		return input{}, errors.New(errors.ErrCodeInvalidInput, "%s is a mapping result, not a layout (run 'compgraph layout' first)", path)
	}
	return in, nil
}

func isLayout(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&probe); err != nil {
		return false
	}
	_, ok := probe["nodes"]
	return ok
}

// outputPath derives "<input without ext><suffix>" unless output is set.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
