package mapfile

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/maptool/pkg/rotation"
)

// Legend returns the tilemap section as tile id -> prototype name.
func (d *Document) Legend() (map[int32]string, error) {
	legend := make(map[int32]string)
	err := d.eachLegendEntry(func(id int32, slot **yaml.Node) {
		legend[id] = resolve(*slot).Value
	})
	if err != nil {
		return nil, err
	}
	return legend, nil
}

// RewriteLegend replaces every directional prototype in the tilemap with its
// canonical id and returns the rotation to apply to each affected tile id.
//
// Every catalog hit is reported, including zero-delta hits whose name is
// already canonical. Entries missing from the catalog are left as they are.
// An entry that is an alias gets its own scalar, so the anchored node keeps
// its value.
func (d *Document) RewriteLegend(catalog *rotation.Catalog) (map[int32]rotation.Entry, error) {
	rotations := make(map[int32]rotation.Entry)
	err := d.eachLegendEntry(func(id int32, slot **yaml.Node) {
		value := resolve(*slot)
		entry, ok := catalog.Lookup(value.Value)
		if !ok {
			return
		}
		if *slot != value {
			*slot = &yaml.Node{Kind: yaml.ScalarNode, Tag: value.Tag, Style: value.Style}
			d.tags.Track(*slot)
			value = *slot
		}
		value.SetString(entry.Canonical)
		rotations[id] = entry
	})
	if err != nil {
		return nil, err
	}
	return rotations, nil
}

// eachLegendEntry calls fn for every scalar -> scalar pair in the tilemap,
// passing the slot that holds the value node.
func (d *Document) eachLegendEntry(fn func(id int32, slot **yaml.Node)) error {
	tilemap := mappingValue(d.root, "tilemap")
	if tilemap == nil || tilemap.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: missing tilemap", ErrFormat)
	}

	for i := 0; i+1 < len(tilemap.Content); i += 2 {
		key := resolve(tilemap.Content[i])
		value := resolve(tilemap.Content[i+1])
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			continue
		}

		id, err := strconv.ParseInt(key.Value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: tilemap key %q is not a tile id (line %d)", ErrFormat, key.Value, key.Line)
		}
		fn(int32(id), &tilemap.Content[i+1])
	}
	return nil
}
