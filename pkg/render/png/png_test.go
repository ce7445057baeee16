package png

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"testing"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/render/styles"
)

func smallLayout() graph.Layout {
	return graph.Layout{
		Nodes: []graph.Node{
			{ID: "state:0", Kind: graph.KindState, Label: "count", X: 100, Y: 80, Width: 140, Height: 28},
			{ID: "jsx:0", Kind: graph.KindJSX, Label: "<div>", X: 300, Y: 120, Width: 140, Height: 28},
		},
		Edges: []graph.Edge{
			{ID: "e1", Kind: graph.EdgeStateMutation,
				From: graph.Endpoint{NodeID: "state:0", X: 100, Y: 80},
				To:   graph.Endpoint{NodeID: "jsx:0", X: 300, Y: 120}},
		},
		ColX:   map[string]float64{"state": 100, "jsx": 300},
		Width:  400,
		Height: 180,
	}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := stdpng.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		wantW int
		wantH int
	}{
		{"1x", Options{Scale: 1, Supersample: 2}, 400, 180},
		{"2x", Options{Scale: 2, Supersample: 1, Headers: true}, 800, 360},
		{"defaults for zero values", Options{}, 400, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, smallLayout(), tt.opts); err != nil {
				t.Fatalf("Render: %v", err)
			}
			img := decode(t, buf.Bytes())
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderColors(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, smallLayout(), Options{Scale: 1, Supersample: 2}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := decode(t, buf.Bytes())

	// Inside the state box, away from the label.
	want := parseHex(styles.NodeStyleFor(graph.KindState).Fill)
	if got := color.RGBAModel.Convert(img.At(40, 72)).(color.RGBA); !near(got, want) {
		t.Errorf("state fill = %v, want ~%v", got, want)
	}
	// Empty corner stays white.
	if got := color.RGBAModel.Convert(img.At(395, 5)).(color.RGBA); !near(got, colorWhite) {
		t.Errorf("background = %v, want white", got)
	}
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, graph.Layout{}, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("zero canvas error = %v, want INVALID_LAYOUT", err)
	}

	huge := graph.Layout{Width: 100000, Height: 100000}
	err = Render(&buf, huge, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("huge canvas error = %v, want INVALID_INPUT", err)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#2e7d32", color.RGBA{0x2e, 0x7d, 0x32, 255}},
		{"ffffff", color.RGBA{255, 255, 255, 255}},
		{"#fff", color.RGBA{0, 0, 0, 255}},
		{"#zzzzzz", color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := parseHex(tt.in); got != tt.want {
			t.Errorf("parseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDash(t *testing.T) {
	dash := parseDash("6 4")
	if len(dash) != 2 || dash[0] != 6 || dash[1] != 4 {
		t.Fatalf("parseDash = %v", dash)
	}
	tests := []struct {
		at   float64
		want bool
	}{
		{0, true}, {5.9, true}, {6.1, false}, {9.9, false}, {10.5, true},
	}
	for _, tt := range tests {
		if got := dashOn(dash, tt.at); got != tt.want {
			t.Errorf("dashOn(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
	if !dashOn(nil, 42) {
		t.Error("solid stroke should always be on")
	}
}

func TestInsideRounded(t *testing.T) {
	if !insideRounded(5, 5, 0, 0, 10, 10, 2) {
		t.Error("center should be inside")
	}
	if insideRounded(0.1, 0.1, 0, 0, 10, 10, 2) {
		t.Error("corner should be cut")
	}
	if insideRounded(11, 5, 0, 0, 10, 10, 2) {
		t.Error("point outside box reported inside")
	}
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) < 12 && d(a.G, b.G) < 12 && d(a.B, b.B) < 12
}
