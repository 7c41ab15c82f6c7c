package mapfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/maptool/pkg/encoding"
)

// TagSet remembers the explicit tags (e.g. "!type:Foo") seen while parsing,
// so they can be put back before serialization. Scalars are edited with
// yaml.Node.SetString, which resets the tag to !!str.
type TagSet struct {
	tags map[*yaml.Node]string
}

// RecordTags collects every explicitly tagged node under the given roots.
func RecordTags(roots ...*yaml.Node) *TagSet {
	s := &TagSet{tags: make(map[*yaml.Node]string)}
	for _, root := range roots {
		s.record(root)
	}
	return s
}

// Track records the tag of a node added to the tree after parsing.
func (s *TagSet) Track(n *yaml.Node) {
	if s != nil {
		s.record(n)
	}
}

func (s *TagSet) record(n *yaml.Node) {
	if n == nil || n.Kind == yaml.AliasNode {
		return
	}
	if n.Style&yaml.TaggedStyle != 0 && n.Tag != "" {
		s.tags[n] = n.Tag
	}
	for _, child := range n.Content {
		s.record(child)
	}
}

// Len returns the number of recorded tags.
func (s *TagSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tags)
}

// Apply restores every recorded tag onto its node and marks it as
// explicitly tagged. It returns how many nodes had lost their tag.
func (s *TagSet) Apply() int {
	if s == nil {
		return 0
	}
	restored := 0
	for n, tag := range s.tags {
		if n.Tag == tag && n.Style&yaml.TaggedStyle != 0 {
			continue
		}
		n.Tag = tag
		n.Style |= yaml.TaggedStyle
		restored++
	}
	return restored
}

// Encoder is the serialization stage for map documents. It wraps a
// yaml.Encoder, replays recorded tags onto each tree before it is emitted
// and lays block sequences out the way the source had them. Output is
// written to the underlying writer on Close.
type Encoder struct {
	w      io.Writer
	buf    bytes.Buffer
	enc    *yaml.Encoder
	tags   *TagSet
	layout SequenceLayout
}

// NewEncoder returns an Encoder writing to w with two-space indentation.
func NewEncoder(w io.Writer, tags *TagSet, layout SequenceLayout) *Encoder {
	e := &Encoder{w: w, tags: tags, layout: layout}
	e.enc = yaml.NewEncoder(&e.buf)
	e.enc.SetIndent(2)
	return e
}

// Encode adds one document to the stream.
func (e *Encoder) Encode(node *yaml.Node) error {
	e.tags.Apply()
	return e.enc.Encode(node)
}

// Close flushes the stream to the underlying writer.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return err
	}
	out := e.buf.Bytes()
	if e.layout == FlushSequences {
		out = flushSequences(out)
	}
	_, err := e.w.Write(out)
	return err
}

// Encode serializes the document, in its original text encoding, to w.
func (d *Document) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, d.tags, d.layout)
	for _, doc := range d.docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	raw, err := encoding.EncodeText(buf.Bytes(), d.encoding)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// Save writes the document to path.
//
// The file is written to a temporary sibling and renamed into place, so a
// failed save leaves the previous contents intact.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	return f.Close()
}
