package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Tile record errors.
var (
	ErrTileDataLength = errors.New("tile data length is not a multiple of the record size")
	ErrTruncatedTile  = errors.New("truncated tile record")
)

// TileRecordSize is the encoded size of one TileRecord in bytes.
const TileRecordSize = 7

// Rotation field layout.
const (
	RotationTurnsMask uint8 = 0x3 // quarter-turn count, bits 0-1
	RotationMirror    uint8 = 0x4 // mirror flag, bit 2
)

// TileRecord is one grid cell as stored in a chunk's tile stream.
//
// Layout (little-endian): int32 tile id, then flags, variant and rotation
// bytes.
type TileRecord struct {
	TileID   int32
	Flags    uint8
	Variant  uint8
	Rotation uint8
}

// Turns returns the quarter-turn count of the record.
func (t TileRecord) Turns() uint8 {
	return t.Rotation & RotationTurnsMask
}

// IsMirrored returns true if the mirror flag is set.
func (t TileRecord) IsMirrored() bool {
	return t.Rotation&RotationMirror != 0
}

// CombineRotation adds delta quarter-turns to a rotation byte.
// Only bits 0-1 change; the mirror flag and any higher bits are kept.
func CombineRotation(current, delta uint8) uint8 {
	turns := (current&RotationTurnsMask + delta) & RotationTurnsMask
	return current&^RotationTurnsMask | turns
}

// DecodeTiles parses a packed tile stream.
func DecodeTiles(data []byte) ([]TileRecord, error) {
	if len(data)%TileRecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTileDataLength, len(data))
	}

	r := bytes.NewReader(data)
	tiles := make([]TileRecord, len(data)/TileRecordSize)
	for i := range tiles {
		tile, err := parseTileRecord(r)
		if err != nil {
			return nil, fmt.Errorf("parsing tile %d: %w", i, err)
		}
		tiles[i] = tile
	}

	return tiles, nil
}

// parseTileRecord reads a single 7-byte record.
func parseTileRecord(r *bytes.Reader) (TileRecord, error) {
	var tile TileRecord

	if err := binary.Read(r, binary.LittleEndian, &tile.TileID); err != nil {
		return TileRecord{}, fmt.Errorf("%w: reading tile id", ErrTruncatedTile)
	}

	var fields [3]byte
	if _, err := io.ReadFull(r, fields[:]); err != nil {
		return TileRecord{}, fmt.Errorf("%w: reading tile fields", ErrTruncatedTile)
	}
	tile.Flags = fields[0]
	tile.Variant = fields[1]
	tile.Rotation = fields[2]

	return tile, nil
}

// EncodeTiles packs records back into a tile stream.
func EncodeTiles(tiles []TileRecord) []byte {
	out := make([]byte, len(tiles)*TileRecordSize)
	for i, tile := range tiles {
		rec := out[i*TileRecordSize : (i+1)*TileRecordSize]
		binary.LittleEndian.PutUint32(rec[0:4], uint32(tile.TileID))
		rec[4] = tile.Flags
		rec[5] = tile.Variant
		rec[6] = tile.Rotation
	}
	return out
}
