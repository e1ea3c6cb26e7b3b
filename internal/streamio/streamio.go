// Package streamio provides gzip-transparent stream opening: any file
// reader in this module accepts a plain or a gzip-compressed stream,
// detected from the file's magic bytes rather than its name. Grounded on
// the gzip-detection dance in the teacher's vcf.NewParser and
// cache.FASTALoader.Load.
package streamio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"github.com/gobics/ecurve-go/internal/errs"
)

// Type selects how a stream is to be interpreted.
type Type int

const (
	// Plain treats the stream as uncompressed.
	Plain Type = iota
	// Gzip treats the stream as gzip-compressed.
	Gzip
	// Auto sniffs the first two bytes for the gzip magic number.
	Auto
)

// OpenReader opens path for reading and wraps it per typ. If path is "-", it
// reads from os.Stdin. The returned closer must be called by the caller;
// closing it also closes any underlying gzip reader and file.
func OpenReader(path string, typ Type) (io.Reader, io.Closer, error) {
	var f *os.File
	var err error
	if path == "-" {
		f = os.Stdin
	} else {
		f, err = os.Open(path)
		if err != nil {
			return nil, nil, errs.Wrap(errs.IoError, "open "+path, err)
		}
	}

	br := bufio.NewReader(f)

	useGzip := typ == Gzip
	if typ == Auto {
		magic, err := br.Peek(2)
		if err != nil && err != io.EOF {
			closeFile(f, path)
			return nil, nil, errs.Wrap(errs.IoError, "peek "+path, err)
		}
		useGzip = len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b
	}

	if !useGzip {
		return br, fileCloser{f: f, path: path}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		closeFile(f, path)
		return nil, nil, errs.Wrap(errs.IoError, "open gzip reader for "+path, err)
	}
	return gz, gzipCloser{gz: gz, f: f, path: path}, nil
}

// OpenWriter opens path for writing (truncating it), optionally gzip
// compressing the output. typ must be Plain or Gzip; Auto is invalid for
// writing.
func OpenWriter(path string, typ Type) (io.Writer, io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "create "+path, err)
	}
	if typ == Gzip {
		gw := gzip.NewWriter(f)
		return gw, gzipWriteCloser{gw: gw, f: f}, nil
	}
	return f, f, nil
}

func closeFile(f *os.File, path string) {
	if f != os.Stdin {
		_ = f.Close()
	}
}

type fileCloser struct {
	f    *os.File
	path string
}

func (c fileCloser) Close() error {
	if c.f == os.Stdin {
		return nil
	}
	return c.f.Close()
}

type gzipCloser struct {
	gz   *gzip.Reader
	f    *os.File
	path string
}

func (c gzipCloser) Close() error {
	_ = c.gz.Close()
	if c.f == os.Stdin {
		return nil
	}
	return c.f.Close()
}

type gzipWriteCloser struct {
	gw *gzip.Writer
	f  *os.File
}

func (c gzipWriteCloser) Close() error {
	if err := c.gw.Close(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}
