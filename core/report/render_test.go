package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/surfacediff/core/surface"
)

func sampleReport() *surface.Report {
	return &surface.Report{
		TypesNotInCandidate:   []string{"Microsoft.Xna.Framework.Input.Touch.TouchPanel"},
		TypesExtraInCandidate: []string{"Microsoft.Xna.Framework.FNALoggerEXT"},
		TypeComparisons: []surface.TypeDiscrepancy{
			{
				TypeName:               "Vec2",
				FieldsNotInCandidate:   []string{"float Y"},
				FieldsExtraInCandidate: []string{"double Y"},
			},
			{
				TypeName:                "Game",
				EventsNotInCandidate:    []string{"EventHandler Activated"},
				MethodsExtraInCandidate: []string{"void Tick()"},
			},
		},
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{CandidateLabel: "FNA"}))

	want := strings.Join([]string{
		"Types Not In FNA:",
		"\tMicrosoft.Xna.Framework.Input.Touch.TouchPanel",
		"",
		"Types Extra In FNA:",
		"\tMicrosoft.Xna.Framework.FNALoggerEXT",
		"",
		"Type Comparisons:",
		"\tVec2",
		"\t\tFields Not In FNA:",
		"\t\t\tfloat Y",
		"\t\tFields Extra In FNA:",
		"\t\t\tdouble Y",
		"",
		"\tGame",
		"\t\tEvents Not In FNA:",
		"\t\t\tEventHandler Activated",
		"\t\tMethods Extra In FNA:",
		"\t\t\tvoid Tick()",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRender_TextDefaultLabelAndEmptyBlocks(t *testing.T) {
	r := &surface.Report{TypesExtraInCandidate: []string{"Extra"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))
	assert.Equal(t, "Types Extra In Candidate:\n\tExtra\n\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, &surface.Report{}, Options{Format: FormatText}))
	assert.Empty(t, buf.String())
}

func TestRender_TextRenameHints(t *testing.T) {
	r := &surface.Report{TypeComparisons: []surface.TypeDiscrepancy{{
		TypeName:                "Game",
		MethodsNotInCandidate:   []string{"void Tick()"},
		MethodsExtraInCandidate: []string{"void Ticks()"},
		RenameHints:             []surface.RenameHint{{Kind: surface.MemberMethod, From: "void Tick()", To: "void Ticks()", Score: 0.8}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))
	assert.Contains(t, buf.String(), "\t\tPossible Renames:\n\t\t\tvoid Tick() -> void Ticks()\n")
}

func TestRender_TextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	require.NoError(t, Render(&buf, sampleReport(), Options{Color: false}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{Format: FormatJSON}))

	var got surface.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), &got)
	assert.Contains(t, buf.String(), `"fields_not_in_candidate"`)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{Format: FormatYAML}))

	var got surface.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), &got)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleReport(), Options{Format: "xml"})
	assert.Error(t, err)
}
