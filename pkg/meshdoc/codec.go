package meshdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when a file extension maps to no
// registered codec. The document is never mutated in that case.
var ErrUnknownFormat = errors.New("meshdoc: unknown file format")

// Codec serializes a document to and from one container format.
type Codec interface {
	Read(d *Document, r io.Reader) error
	Write(d *Document, w io.Writer) error
}

var codecs = map[string]Codec{}

// RegisterCodec registers a codec under a lowercase extension (without
// the dot). Codecs register themselves from init.
func RegisterCodec(format string, c Codec) {
	codecs[format] = c
}

// CodecFor returns the codec for a format key.
func CodecFor(format string) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// FormatForPath derives the codec key from a file path: the lowercase
// extension without its dot.
func FormatForPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadFile loads a file into the document, dispatching on extension.
// The read is all-or-nothing: the document is replaced wholesale on
// success and untouched on any failure, including an unknown extension.
func (d *Document) ReadFile(path string) error {
	codec, err := CodecFor(FormatForPath(path))
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("meshdoc: read %s: %w", path, err)
	}
	defer f.Close()

	tmp := NewDocument(d.unit)
	if err := codec.Read(tmp, f); err != nil {
		return fmt.Errorf("meshdoc: read %s: %w", path, err)
	}
	*d = *tmp
	return nil
}

// WriteFile serializes the document to a file, dispatching on extension.
func (d *Document) WriteFile(path string) error {
	codec, err := CodecFor(FormatForPath(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshdoc: write %s: %w", path, err)
	}
	if err := codec.Write(d, f); err != nil {
		f.Close()
		return fmt.Errorf("meshdoc: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("meshdoc: write %s: %w", path, err)
	}
	return nil
}
