package cache

import "time"

// TTLs for cached entries. Artifacts live longer than layouts because the
// layout hash already pins every input that shaped them.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Key prefixes, also used as the keyType in cache hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	DepthGap float64 `json:"depth_gap"`
	RowGap   float64 `json:"row_gap"`
	BaseY    float64 `json:"base_y"`
	Margin   float64 `json:"margin"`
	Packer   string  `json:"packer,omitempty"`
	// Tree is false when only the base column layout is requested.
	Tree bool `json:"tree"`
	// Strict runs only ever read layouts that passed strict validation.
	Strict     bool `json:"strict,omitempty"`
	KeepInside bool `json:"keep_inside,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Title      string  `json:"title,omitempty"`
	EdgeLabels bool    `json:"edge_labels,omitempty"`
	Headers    bool    `json:"headers"`
	Scale      float64 `json:"scale,omitempty"`
	Ranked     bool    `json:"ranked,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout computed from a mapping result.
	LayoutKey(mappingHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "<type>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(mappingHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, mappingHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}
