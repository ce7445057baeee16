package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/compgraph/pkg/errors"
)

const todoYAML = `
component: TodoList
independents:
  - name: items
states:
  - name: filter
    setter: setFilter
variables:
  - name: visible
    deps: [items, filter]
effects:
  - name: syncTitle
    deps: [visible]
    mutates: [filter]
jsx:
  - id: list
    tag: ul
  - id: item
    tag: li
    parent: list
    uses: [visible]
externals:
  - name: fetchTodos
    users: [syncTitle]
`

const todoJSON = `{
  "component": "TodoList",
  "independents": [{"name": "items"}],
  "states": [{"name": "filter", "setter": "setFilter"}],
  "jsx": [
    {"id": "list", "tag": "ul"},
    {"id": "item", "tag": "li", "parent": "list", "uses": ["filter"]}
  ]
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		format    Format
		wantCount int
		wantJSX   int
	}{
		{"yaml", todoYAML, FormatYAML, 7, 2},
		{"json", todoJSON, FormatJSON, 4, 2},
		{"empty yaml", "", FormatYAML, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := res.Count(); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
			if len(res.JSX) != tt.wantJSX {
				t.Errorf("len(JSX) = %d, want %d", len(res.JSX), tt.wantJSX)
			}
		})
	}
}

func TestParseFields(t *testing.T) {
	res, err := Parse([]byte(todoYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Component != "TodoList" {
		t.Errorf("Component = %q, want TodoList", res.Component)
	}
	if res.States[0].Setter != "setFilter" {
		t.Errorf("Setter = %q, want setFilter", res.States[0].Setter)
	}
	if got := res.Effects[0].Mutates; len(got) != 1 || got[0] != "filter" {
		t.Errorf("Mutates = %v, want [filter]", got)
	}
	if res.JSX[1].Parent != "list" {
		t.Errorf("Parent = %q, want list", res.JSX[1].Parent)
	}
	if got := res.Externals[0].Users; len(got) != 1 || got[0] != "syncTitle" {
		t.Errorf("Users = %v, want [syncTitle]", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"malformed json", `{"component": `, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown json field", `{"component": "x", "extra": 1}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown yaml field", "component: x\nprops: []\n", FormatYAML, errors.ErrCodeInvalidInput},
		{"duplicate name", "states:\n  - name: a\nvariables:\n  - name: a\n", FormatYAML, errors.ErrCodeInvalidInput},
		{"blank name", "states:\n  - name: ' '\n", FormatYAML, errors.ErrCodeInvalidInput},
		{"jsx id with space", "jsx:\n  - id: a b\n    tag: div\n", FormatYAML, errors.ErrCodeInvalidInput},
		{"unknown format", "{}", Format("toml"), errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var nilRes *Result
	if !nilRes.IsEmpty() {
		t.Error("nil result should be empty")
	}
	if !(&Result{Component: "Empty"}).IsEmpty() {
		t.Error("result without entries should be empty")
	}
	if (&Result{JSX: []Element{{ID: "a", Tag: "div"}}}).IsEmpty() {
		t.Error("result with jsx should not be empty")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"mapping.json", FormatJSON, false},
		{"mapping.YAML", FormatYAML, false},
		{"dir/mapping.yml", FormatYAML, false},
		{"mapping.txt", "", true},
		{"mapping", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" YML "); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yaml")
	if err := os.WriteFile(path, []byte(todoYAML), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Component != "TodoList" {
		t.Errorf("Component = %q", res.Component)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("error %q should mention path", err)
	}
}
