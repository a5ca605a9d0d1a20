// Package zlibio wraps zlib-framed (not raw deflate) compression for the
// object store. Loose objects and pack entries are both zlib streams, so
// the inflate/deflate pair here is shared by both callers.
package zlibio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Inflate decompresses a zlib stream, consuming exactly the compressed span
// understood by r and returning the full uncompressed payload.
func Inflate(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zlibio: inflate: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlibio: inflate: %w", err)
	}
	return out, nil
}

// InflateBytes is a convenience wrapper over Inflate for in-memory buffers.
func InflateBytes(data []byte) ([]byte, error) {
	return Inflate(bytes.NewReader(data))
}

// Deflate compresses data using the zlib wrapper format at the default
// compression level.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("zlibio: deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlibio: deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// CountingReader tracks how many bytes have been read from the wrapped
// reader, which lets a pack reader learn where a zlib stream ended without
// needing to know its compressed length up front.
type CountingReader struct {
	r io.Reader
	n int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ReadByte makes CountingReader an io.ByteReader, so the decompressor reads
// from it directly instead of through its own buffer and N stops at the end
// of the compressed stream.
func (c *CountingReader) ReadByte() (byte, error) {
	var b [1]byte
	n, err := io.ReadFull(c.r, b[:])
	c.n += int64(n)
	if n == 0 {
		return 0, err
	}
	return b[0], nil
}

// N returns the number of bytes read so far.
func (c *CountingReader) N() int64 {
	return c.n
}
