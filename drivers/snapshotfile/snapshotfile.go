// Package snapshotfile reads and writes serialized surface snapshots, so
// surfaces produced by other tools can be compared with the same core.
package snapshotfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/surfacediff/core/driver"
	"github.com/emenda-labs/surfacediff/core/surface"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	default:
		return "", fmt.Errorf("unknown snapshot format %q (want json, yaml or msgpack)", s)
	}
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".msgpack", ".mp":
		return FormatMsgpack, true
	}
	return "", false
}

var _ driver.SurfaceLoader = Loader{}

// Loader loads snapshot files by extension.
type Loader struct{}

func (Loader) Name() string { return "snapshot" }

// Accepts reports whether source has a known snapshot extension.
func (Loader) Accepts(source string) bool {
	_, ok := FormatForPath(source)
	return ok
}

// Load reads and decodes the snapshot file at source.
func (Loader) Load(ctx context.Context, source string) (*surface.Snapshot, error) {
	format, ok := FormatForPath(source)
	if !ok {
		return nil, fmt.Errorf("unrecognized snapshot file extension: %s", source)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	if snap.Origin == "" {
		snap.Origin = source
	}
	return snap, nil
}

// Decode parses a snapshot and checks that every descriptor is usable.
func Decode(data []byte, format Format) (*surface.Snapshot, error) {
	var snap surface.Snapshot
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&snap)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&snap)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &snap)
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// validate fills missing descriptor names from their keys and rejects
// nil descriptors and unnamed members.
func validate(snap *surface.Snapshot) error {
	if snap.Types == nil {
		snap.Types = make(map[string]*surface.TypeDescriptor)
	}
	for key, td := range snap.Types {
		if td == nil {
			return fmt.Errorf("type %q has no descriptor", key)
		}
		if td.Name == "" {
			td.Name = key
		}
		for _, f := range td.Fields {
			if f.Name == "" {
				return fmt.Errorf("type %q: field without a name", key)
			}
		}
		for _, p := range td.Properties {
			if p.Name == "" {
				return fmt.Errorf("type %q: property without a name", key)
			}
		}
		for _, e := range td.Events {
			if e.Name == "" {
				return fmt.Errorf("type %q: event without a name", key)
			}
		}
		for _, m := range td.Methods {
			if m.Name == "" {
				return fmt.Errorf("type %q: method without a name", key)
			}
		}
	}
	return nil
}

// Write encodes snap to w.
func Write(w io.Writer, snap *surface.Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown snapshot format %q", format)
	}
}

// WriteFile encodes snap to path, choosing the format from the extension
// unless format is set.
func WriteFile(path string, snap *surface.Snapshot, format Format) (err error) {
	if format == "" {
		f, ok := FormatForPath(path)
		if !ok {
			return fmt.Errorf("cannot infer snapshot format from %s", path)
		}
		format = f
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing snapshot file: %w", cerr)
		}
	}()
	if err := Write(f, snap, format); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
