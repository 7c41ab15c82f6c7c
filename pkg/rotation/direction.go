// Package rotation maps directional tile prototypes onto a canonical tile
// plus a quarter-turn rotation.
package rotation

import "fmt"

// Direction is a cardinal facing of a tile prototype.
//
// The numeric value is the quarter-turn ordinal used by the tile rotation
// field: adding one turns the tile a quarter counter-clockwise.
type Direction uint8

// Cardinal directions in rotation order.
const (
	South Direction = 0
	East  Direction = 1
	North Direction = 2
	West  Direction = 3
)

// Ordinal returns the direction's position in the quarter-turn cycle (0-3).
func (d Direction) Ordinal() uint8 {
	return uint8(d) & 0x3
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case South:
		return "South"
	case East:
		return "East"
	case North:
		return "North"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// QuarterTurns returns how many quarter-turns take a tile facing from to a
// tile facing to.
func QuarterTurns(from, to Direction) uint8 {
	return (to.Ordinal() - from.Ordinal() + 4) & 0x3
}
