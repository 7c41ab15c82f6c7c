// Package mapfile loads, inspects and saves YAML grid-map documents.
//
// A map document looks like:
//
//	meta:
//	  format: 7
//	tilemap:
//	  0: Space
//	  5: CMFloorCargoArrowUp
//	entities:
//	  - proto: ""
//	    entities:
//	      - uid: 1
//	        components:
//	          - type: MapGrid
//	            chunks:
//	              0,0:
//	                ind: 0,0
//	                tiles: BQAAAAAAAA==
//	                version: 7
//
// The package only understands the structure it needs; every other node is
// carried through untouched.
package mapfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/maptool/pkg/encoding"
)

// ErrFormat reports a document that does not have the shape of a map file.
var ErrFormat = errors.New("not a map document")

// Map document constants.
const (
	// FormatVersion is the only meta.format (and chunk version) handled.
	FormatVersion = "7"
	// GridComponent is the component type that carries tile chunks.
	GridComponent = "MapGrid"
	// DefaultExtension is the file extension of map documents.
	DefaultExtension = ".yml"
)

// Document is one parsed map file.
type Document struct {
	docs     []*yaml.Node
	root     *yaml.Node
	tags     *TagSet
	layout   SequenceLayout
	encoding encoding.Encoding
}

// Load reads and parses the map file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return Parse(data)
}

// Parse parses a map document from raw file bytes.
//
// Syntax errors are returned as-is; a stream that parses but has no mapping
// at its root fails with ErrFormat.
func Parse(data []byte) (*Document, error) {
	text, enc, err := encoding.DecodeText(data)
	if err != nil {
		return nil, err
	}

	var docs []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(text))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		docs = append(docs, &node)
	}

	if len(docs) == 0 || len(docs[0].Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrFormat)
	}

	root := docs[0].Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrFormat)
	}

	return &Document{
		docs:     docs,
		root:     root,
		tags:     RecordTags(docs...),
		layout:   DetectLayout(docs...),
		encoding: enc,
	}, nil
}

// Root returns the root mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Encoding returns the on-disk text encoding the document was read with.
func (d *Document) Encoding() encoding.Encoding {
	return d.encoding
}

// Layout returns how block sequences were laid out in the source. Encode
// writes them back the same way.
func (d *Document) Layout() SequenceLayout {
	return d.layout
}

// FormatVersion returns meta.format, or "" if it is missing.
func (d *Document) FormatVersion() string {
	meta := mappingValue(d.root, "meta")
	if meta == nil || meta.Kind != yaml.MappingNode {
		return ""
	}
	return scalarValue(meta, "format")
}

// IsEligible reports whether the document declares the given format
// version. It never modifies the document.
func (d *Document) IsEligible(version string) bool {
	v := d.FormatVersion()
	return v != "" && v == version
}

// mappingValue returns the value stored under key in a mapping node, with
// aliases resolved. It returns nil if m is not a mapping or has no such key.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolve(m.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

// scalarValue returns the scalar stored under key, or "".
func scalarValue(m *yaml.Node, key string) string {
	n := mappingValue(m, key)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

