package formats

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Faultbox/maptool/pkg/rotation"
)

// ErrInvalidPayload is returned when a chunk's tile text is not valid base64.
var ErrInvalidPayload = errors.New("invalid chunk tile payload")

// RewriteTiles applies the rotation deltas in rotations to every record
// whose tile id is listed.
//
// A payload whose length is not a multiple of TileRecordSize is foreign and
// is returned unchanged. Otherwise the result has the same length and record
// order as payload, and changed reports whether any record matched.
func RewriteTiles(payload []byte, rotations map[int32]rotation.Entry) ([]byte, bool) {
	tiles, err := DecodeTiles(payload)
	if err != nil {
		return payload, false
	}

	changed := false
	for i := range tiles {
		entry, ok := rotations[tiles[i].TileID]
		if !ok {
			continue
		}
		tiles[i].Rotation = CombineRotation(tiles[i].Rotation, entry.Delta)
		changed = true
	}

	if !changed {
		return payload, false
	}
	return EncodeTiles(tiles), true
}

// RewriteChunkPayload is RewriteTiles over the base64 text stored in a
// chunk's tiles field.
func RewriteChunkPayload(encoded string, rotations map[int32]rotation.Entry) (string, bool, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return encoded, false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out, changed := RewriteTiles(payload, rotations)
	if !changed {
		return encoded, false, nil
	}
	return base64.StdEncoding.EncodeToString(out), true, nil
}
