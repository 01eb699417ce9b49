package snapshotfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/surfacediff/core/surface"
)

func sampleSnapshot() *surface.Snapshot {
	snap := surface.NewSnapshot("sample")
	snap.Markers = []string{", Sample.Assembly"}
	getter := &surface.MethodDescriptor{Name: "get_Length", ReturnType: "System.Double", Accessor: true}
	snap.Types["Sample.Vec2"] = &surface.TypeDescriptor{
		Name:       "Sample.Vec2",
		Fields:     []surface.FieldDescriptor{{Name: "X", Type: "System.Double"}},
		Properties: []surface.PropertyDescriptor{{Name: "Length", Type: "System.Double", Getter: getter}},
		Events:     []surface.EventDescriptor{{Name: "Changed", HandlerType: "System.EventHandler"}},
		Methods: []surface.MethodDescriptor{
			*getter,
			{
				Name:       "TryParse",
				ReturnType: "System.Boolean",
				Static:     true,
				Parameters: []surface.ParameterDescriptor{
					{Name: "s", Type: "System.String"},
					{Name: "result", Type: "Sample.Vec2&, Sample.Assembly", Out: true},
				},
			},
		},
	}
	return snap
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, sampleSnapshot(), format))

			got, err := Decode(buf.Bytes(), format)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), got)
		})
	}
}

func TestLoader_Accepts(t *testing.T) {
	l := Loader{}
	for _, src := range []string{"a.json", "a.YAML", "dir/a.yml", "a.msgpack", "a.mp"} {
		assert.True(t, l.Accepts(src), src)
	}
	for _, src := range []string{"a.txt", "github.com/acme/mod@v1.0.0", "."} {
		assert.False(t, l.Accepts(src), src)
	}
}

func TestLoader_LoadFillsOriginAndNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.yaml")
	content := `types:
  Sample.Point:
    fields:
      - name: X
        type: System.Int32
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := Loader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, snap.Origin)
	require.NotNil(t, snap.Lookup("Sample.Point"))
	assert.Equal(t, "Sample.Point", snap.Lookup("Sample.Point").Name)
}

func TestLoader_LoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown.json": `{"types": {}, "extra": 1}`,
		"nildesc.json": `{"types": {"A": null}}`,
		"noname.json":  `{"types": {"A": {"methods": [{"return_type": "void"}]}}}`,
		"garbage.yaml": "types: [unclosed",
		"truncated.mp": "\x81",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Loader{}.Load(context.Background(), path)
		assert.Error(t, err, name)
	}

	_, err := Loader{}.Load(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "out.msgpack")
	require.NoError(t, WriteFile(path, sampleSnapshot(), ""))
	snap, err := Loader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot().Types, snap.Types)

	assert.Error(t, WriteFile(filepath.Join(dir, "out.bin"), sampleSnapshot(), ""))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
