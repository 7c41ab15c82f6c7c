package rotation

import (
	"sort"
	"sync"
)

// Entry is the canonical form of one directional tile prototype.
type Entry struct {
	// Canonical is the prototype every variant of the family collapses into.
	Canonical string
	// Delta is the quarter-turn count (0-3) from the canonical orientation
	// to the variant's orientation.
	Delta uint8
}

// Variant pairs a directional prototype with its facing.
type Variant struct {
	ID        string
	Direction Direction
}

// DiagonalVariant pairs a prototype with an explicit quarter-turn delta.
// Diagonal tiles do not share the cardinal ordinal space, so their deltas
// are listed rather than derived.
type DiagonalVariant struct {
	ID    string
	Delta uint8
}

// Catalog is an immutable prototype -> Entry table.
type Catalog struct {
	entries map[string]Entry
}

// Lookup returns the entry for a prototype.
// A miss means the prototype is not rotation-eligible.
func (c *Catalog) Lookup(prototype string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[prototype]
	return e, ok
}

// Len returns the number of prototypes in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Named is a catalog entry together with the prototype it belongs to.
type Named struct {
	Prototype string
	Entry
}

// Entries returns all entries sorted by canonical id, then delta, then
// prototype name.
func (c *Catalog) Entries() []Named {
	if c == nil {
		return nil
	}
	out := make([]Named, 0, len(c.entries))
	for id, e := range c.entries {
		out = append(out, Named{Prototype: id, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Canonical != out[j].Canonical {
			return out[i].Canonical < out[j].Canonical
		}
		if out[i].Delta != out[j].Delta {
			return out[i].Delta < out[j].Delta
		}
		return out[i].Prototype < out[j].Prototype
	})
	return out
}

// Builder collects tile groups into a Catalog.
// A Builder must not be used after Build.
type Builder struct {
	entries map[string]Entry
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Entry)}
}

// Cardinal adds a four-direction family. Each variant's delta is the number
// of quarter-turns from baseDir to the variant's direction.
func (b *Builder) Cardinal(base string, baseDir Direction, variants ...Variant) *Builder {
	for _, v := range variants {
		b.entries[v.ID] = Entry{
			Canonical: base,
			Delta:     QuarterTurns(baseDir, v.Direction),
		}
	}
	return b
}

// Diagonal adds a family whose deltas are given per variant.
func (b *Builder) Diagonal(base string, variants ...DiagonalVariant) *Builder {
	for _, v := range variants {
		b.entries[v.ID] = Entry{Canonical: base, Delta: v.Delta & 0x3}
	}
	return b
}

// Build freezes the collected groups.
func (b *Builder) Build() *Catalog {
	entries := make(map[string]Entry, len(b.entries))
	for id, e := range b.entries {
		entries[id] = e
	}
	return &Catalog{entries: entries}
}

var defaultCatalog = sync.OnceValue(buildDefault)

// Default returns the built-in catalog of directional floor tiles.
// It is built on first use and shared; callers must treat it as read-only.
func Default() *Catalog {
	return defaultCatalog()
}

func buildDefault() *Catalog {
	b := NewBuilder()

	b.Cardinal("CMFloorCargoArrowDown", South,
		Variant{"CMFloorCargoArrowDown", South},
		Variant{"CMFloorCargoArrowUp", North},
		Variant{"CMFloorCargoArrowRight", East},
		Variant{"CMFloorCargoArrowLeft", West},
	)

	b.Cardinal("CMFloorCorsatArrowSouth", South,
		Variant{"CMFloorCorsatArrowSouth", South},
		Variant{"CMFloorCorsatArrowNorth", North},
		Variant{"CMFloorCorsatArrowEast", East},
		Variant{"CMFloorCorsatArrowWest", West},
	)

	b.Cardinal("RMCFloorAINoBuildArrow", South,
		Variant{"RMCFloorAINoBuildArrow", South},
		Variant{"RMCFloorAINoBuildArrowNorth", North},
		Variant{"RMCFloorAINoBuildArrowEast", East},
		Variant{"RMCFloorAINoBuildArrowWest", West},
	)

	b.Cardinal("CMFloorOuterHullSouth", South,
		Variant{"CMFloorOuterHullSouth", South},
		Variant{"CMFloorOuterHullNorth", North},
		Variant{"CMFloorOuterHullEast", East},
		Variant{"CMFloorOuterHullWest", West},
	)

	b.Diagonal("CMFloorOuterHullSouthEast",
		DiagonalVariant{"CMFloorOuterHullSouthEast", 0},
		DiagonalVariant{"CMFloorOuterHullNorthEast", 1},
		DiagonalVariant{"CMFloorOuterHullNorthWest", 2},
		DiagonalVariant{"CMFloorOuterHullSouthWest", 3},
	)

	b.Cardinal("CMFloorSteelPrisonRampNorth", North,
		Variant{"CMFloorSteelPrisonRampNorth", North},
		Variant{"CMFloorSteelPrisonRampSouth", South},
		Variant{"CMFloorSteelPrisonRampEast", East},
		Variant{"CMFloorSteelPrisonRampWest", West},
	)

	b.Cardinal("RMCFloorHybrisaRampNorth", North,
		Variant{"RMCFloorHybrisaRampNorth", North},
		Variant{"RMCFloorHybrisaRampSouth", South},
		Variant{"RMCFloorHybrisaRampEast", East},
		Variant{"RMCFloorHybrisaRampWest", West},
	)

	b.Cardinal("RMCFloorHybrisaStripeRedNorth", North,
		Variant{"RMCFloorHybrisaStripeRedNorth", North},
		Variant{"RMCFloorHybrisaStripeRedSouth", South},
		Variant{"RMCFloorHybrisaStripeRedEast", East},
		Variant{"RMCFloorHybrisaStripeRedWest", West},
	)

	return b.Build()
}
