package corpus

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// abstractDoc mirrors one <doc> element of a Wikipedia abstract dump.
// Sublinks are present in the dump but never read.
type abstractDoc struct {
	Title    string `xml:"title"`
	URL      string `xml:"url"`
	Abstract string `xml:"abstract"`
}

// XMLSource streams documents from a Wikipedia abstract dump
// (<feed><doc><title/><url/><abstract/>...</doc></feed>). Files ending in
// ".gz" are decompressed on the fly.
type XMLSource struct {
	path string
	open func() (io.ReadCloser, error)
}

// NewXMLFileSource reads the dump at path.
func NewXMLFileSource(path string) *XMLSource {
	return &XMLSource{
		path: path,
		open: func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening dump %s: %w", path, err)
			}
			if !strings.HasSuffix(path, ".gz") {
				return f, nil
			}
			zr, err := gzip.NewReader(bufio.NewReader(f))
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
			}
			return &gzipFile{Reader: zr, file: f}, nil
		},
	}
}

// NewXMLReaderSource reads a dump from r. It can be scanned only once.
func NewXMLReaderSource(name string, r io.Reader) *XMLSource {
	return &XMLSource{
		path: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}
}

func (s *XMLSource) Name() string {
	return "xml:" + s.path
}

func (s *XMLSource) Scan(ctx context.Context, fn func(RawDocument) error) error {
	rc, err := s.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(bufio.NewReaderSize(rc, 1<<20))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading xml token: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "doc" {
			continue
		}
		var doc abstractDoc
		if err := dec.DecodeElement(&doc, &start); err != nil {
			return fmt.Errorf("decoding <doc>: %w", err)
		}
		if err := fn(RawDocument{
			Title: strings.TrimPrefix(doc.Title, "Wikipedia: "),
			URL:   doc.URL,
			Body:  doc.Abstract,
		}); err != nil {
			return err
		}
	}
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}

// SliceSource serves documents from memory.
type SliceSource []RawDocument

func (s SliceSource) Name() string {
	return "memory"
}

func (s SliceSource) Scan(ctx context.Context, fn func(RawDocument) error) error {
	for _, doc := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
