package mapfile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/maptool/pkg/encoding"
	"github.com/Faultbox/maptool/pkg/formats"
	"github.com/Faultbox/maptool/pkg/rotation"
)

const testMapTemplate = `meta:
  format: %s
  postmapinit: false
tilemap:
  0: Space
  5: CMFloorCargoArrowUp
  6: FloorSteel
entities:
  - proto: ""
    entities:
      - uid: 1
        components:
          - type: MetaData
            name: Map Entity
          - type: MapGrid
            chunks:
              0,0:
                ind: 0,0
                tiles: %s
                version: 7
              -1,0:
                ind: -1,0
                tiles: %s
                version: 6
`

// encodeTestTiles packs records and base64-encodes them like a chunk does.
func encodeTestTiles(records ...formats.TileRecord) string {
	return base64.StdEncoding.EncodeToString(formats.EncodeTiles(records))
}

func testMap(format string) string {
	current := encodeTestTiles(
		formats.TileRecord{TileID: 5, Flags: 1, Variant: 2, Rotation: 0},
		formats.TileRecord{TileID: 6, Rotation: 1},
	)
	old := encodeTestTiles(formats.TileRecord{TileID: 5})
	return fmt.Sprintf(testMapTemplate, format, current, old)
}

func TestParse_ValidMap(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	assert.Equal(t, "7", doc.FormatVersion())
	assert.True(t, doc.IsEligible(FormatVersion))
	assert.Equal(t, yaml.MappingNode, doc.Root().Kind)
	assert.Equal(t, encoding.UTF8, doc.Encoding())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		isFormat bool
	}{
		{"empty", "", true},
		{"comment only", "# nothing here\n", true},
		{"sequence root", "- a\n- b\n", true},
		{"scalar root", "hello\n", true},
		{"syntax error", "meta: [unclosed\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.isFormat, errors.Is(err, ErrFormat), "error: %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"supported", testMap("7"), true},
		{"quoted version", testMap(`"7"`), true},
		{"older version", testMap("6"), false},
		{"no meta", "tilemap: {}\n", false},
		{"meta not mapping", "meta: 7\n", false},
		{"format missing", "meta:\n  postmapinit: false\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.IsEligible(FormatVersion))
		})
	}
}

func TestIsEligible_DoesNotMutate(t *testing.T) {
	doc, err := Parse([]byte(testMap("6")))
	require.NoError(t, err)
	doc.IsEligible(FormatVersion)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Equal(t, testMap("6"), buf.String())
}

func TestLegend(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	legend, err := doc.Legend()
	require.NoError(t, err)
	assert.Equal(t, map[int32]string{
		0: "Space",
		5: "CMFloorCargoArrowUp",
		6: "FloorSteel",
	}, legend)
}

func TestRewriteLegend(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	rotations, err := doc.RewriteLegend(rotation.Default())
	require.NoError(t, err)
	assert.Equal(t, map[int32]rotation.Entry{
		5: {Canonical: "CMFloorCargoArrowDown", Delta: 2},
	}, rotations)

	legend, err := doc.Legend()
	require.NoError(t, err)
	assert.Equal(t, "CMFloorCargoArrowDown", legend[5])
	assert.Equal(t, "FloorSteel", legend[6], "catalog misses stay untouched")
}

func TestRewriteLegend_CanonicalNameStillReported(t *testing.T) {
	doc, err := Parse([]byte("meta:\n  format: 7\ntilemap:\n  3: CMFloorOuterHullSouth\n"))
	require.NoError(t, err)

	rotations, err := doc.RewriteLegend(rotation.Default())
	require.NoError(t, err)
	assert.Equal(t, map[int32]rotation.Entry{
		3: {Canonical: "CMFloorOuterHullSouth", Delta: 0},
	}, rotations)
}

func TestRewriteLegend_NoHits(t *testing.T) {
	doc, err := Parse([]byte("meta:\n  format: 7\ntilemap:\n  0: Space\n"))
	require.NoError(t, err)

	rotations, err := doc.RewriteLegend(rotation.Default())
	require.NoError(t, err)
	assert.Empty(t, rotations)
}

func TestRewriteLegend_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing tilemap", "meta:\n  format: 7\n"},
		{"tilemap is sequence", "tilemap:\n  - Space\n"},
		{"non numeric key", "tilemap:\n  floor: CMFloorCargoArrowUp\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			require.NoError(t, err)

			_, err = doc.RewriteLegend(rotation.Default())
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestForEachChunk(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	var keys []string
	err = doc.ForEachChunk(FormatVersion, func(c Chunk) error {
		keys = append(keys, c.Key)
		assert.Positive(t, c.Line())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0,0"}, keys, "version 6 chunk must be skipped")
}

func TestForEachChunk_NestedGroups(t *testing.T) {
	data := `entities:
  - proto: ""
    entities:
      - uid: 1
        components:
          - type: MapGrid
            chunks:
              a: {version: 7, tiles: AAAAAAAAAA==}
              b: {version: 7}
              c: not-a-chunk
      - uid: 2
  - entities:
      - components:
          - type: Transform
            chunks:
              z: {version: 7, tiles: AAAAAAAAAA==}
          - type: MapGrid
            chunks:
              d: {version: 7, tiles: AAAAAAAAAA==}
  - entities: not-a-sequence
  - just-a-scalar
`
	doc, err := Parse([]byte(data))
	require.NoError(t, err)

	var keys []string
	require.NoError(t, doc.ForEachChunk("7", func(c Chunk) error {
		keys = append(keys, c.Key)
		return nil
	}))
	assert.Equal(t, []string{"a", "d"}, keys)
}

func TestForEachChunk_StopsOnError(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	stop := errors.New("stop")
	err = doc.ForEachChunk(FormatVersion, func(Chunk) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestChunk_SetTiles(t *testing.T) {
	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)

	replacement := encodeTestTiles(formats.TileRecord{TileID: 9, Rotation: 3})
	require.NoError(t, doc.ForEachChunk(FormatVersion, func(c Chunk) error {
		c.SetTiles(replacement)
		return nil
	}))

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))

	reparsed, err := Parse(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, reparsed.ForEachChunk(FormatVersion, func(c Chunk) error {
		assert.Equal(t, replacement, c.Tiles())
		return nil
	}))
	assert.Contains(t, buf.String(), "tiles: "+replacement+"\n")
}

func TestEncode_UntouchedRoundTrip(t *testing.T) {
	src := testMap("7")
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Equal(t, src, buf.String())
}

func TestEncode_PreservesBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, testMap("7")...)
	doc, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8BOM, doc.Encoding())

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Equal(t, src, buf.Bytes())
}

func TestEncode_MultipleDocuments(t *testing.T) {
	src := "meta:\n  format: 7\n---\nextra: true\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Equal(t, src, buf.String())
}

func TestSave_ReplacesFileAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yml")
	require.NoError(t, os.WriteFile(path, []byte(testMap("7")), 0640))

	doc, err := Load(path)
	require.NoError(t, err)
	_, err = doc.RewriteLegend(rotation.Default())
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "5: CMFloorCargoArrowDown\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestSave_FailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "map.yml")
	// A directory at the target path makes the final rename fail.
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644))

	doc, err := Parse([]byte(testMap("7")))
	require.NoError(t, err)
	require.Error(t, doc.Save(target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temporary file %s left behind", e.Name())
	}
	_, err = os.Stat(filepath.Join(target, "keep"))
	assert.NoError(t, err)
}
