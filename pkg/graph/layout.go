package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	return ReadLayout(bytes.NewReader(data))
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	if l.Nodes == nil {
		l.Nodes = []Node{}
	}
	if l.Edges == nil {
		l.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes a JSON layout from an io.Reader.
// Unknown fields are rejected so typos in hand-written layouts surface early.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
