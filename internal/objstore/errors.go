package objstore

import "errors"

// Error kinds surfaced by the object codec and pack reader. Call sites wrap
// these with context via fmt.Errorf("...: %w", err) so errors.Is still
// matches through the chain.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrMalformedObject    = errors.New("malformed object")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrDeltaUnsupported   = errors.New("delta-encoded pack entry unsupported")
	ErrLargePackUnsupported = errors.New("pack index large-offset table unsupported")
	ErrDecompressionFailure = errors.New("decompression failure")
)
