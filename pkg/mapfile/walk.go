package mapfile

import (
	"gopkg.in/yaml.v3"
)

// Chunk is one tile chunk of a MapGrid component.
type Chunk struct {
	// Key is the chunk's key in the chunks mapping, e.g. "0,-1".
	Key   string
	node  *yaml.Node
	tiles *yaml.Node
}

// Tiles returns the encoded tile payload.
func (c Chunk) Tiles() string {
	return c.tiles.Value
}

// SetTiles replaces the encoded tile payload, keeping the scalar's style.
// An explicit tag is restored when the document is encoded.
func (c Chunk) SetTiles(encoded string) {
	c.tiles.SetString(encoded)
}

// Line returns the chunk's line in the source document.
func (c Chunk) Line() int {
	return c.node.Line
}

// ForEachChunk calls visit for every MapGrid chunk whose version matches,
// in document order. A non-nil error from visit stops the walk and is
// returned.
//
// The walk follows entities -> entities -> components -> chunks. Nodes
// that do not have the expected kind are skipped.
func (d *Document) ForEachChunk(version string, visit func(Chunk) error) error {
	for _, grid := range d.mapNodes() {
		for _, entity := range sequenceItems(mappingValue(grid, "entities")) {
			for _, comp := range sequenceItems(mappingValue(entity, "components")) {
				if scalarValue(comp, "type") != GridComponent {
					continue
				}
				if err := visitChunks(mappingValue(comp, "chunks"), version, visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func visitChunks(chunks *yaml.Node, version string, visit func(Chunk) error) error {
	if chunks == nil || chunks.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(chunks.Content); i += 2 {
		node := resolve(chunks.Content[i+1])
		if node == nil || node.Kind != yaml.MappingNode {
			continue
		}
		if scalarValue(node, "version") != version {
			continue
		}

		tiles := mappingValue(node, "tiles")
		if tiles == nil || tiles.Kind != yaml.ScalarNode {
			continue
		}

		chunk := Chunk{
			Key:   resolve(chunks.Content[i]).Value,
			node:  node,
			tiles: tiles,
		}
		if err := visit(chunk); err != nil {
			return err
		}
	}
	return nil
}

// mapNodes returns the top-level entity groups.
func (d *Document) mapNodes() []*yaml.Node {
	return sequenceItems(mappingValue(d.root, "entities"))
}

// sequenceItems returns the mapping items of a sequence node.
func sequenceItems(seq *yaml.Node) []*yaml.Node {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		item = resolve(item)
		if item != nil && item.Kind == yaml.MappingNode {
			items = append(items, item)
		}
	}
	return items
}
