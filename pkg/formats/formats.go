// Package formats provides codecs for the binary parts of map files.
package formats

// Note: tile records and the rotation field are implemented in tile.go
// Note: chunk payload rewriting is implemented in chunk.go
