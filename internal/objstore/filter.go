package objstore

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// AutoCRLF mirrors the recognized values of core.autocrlf.
type AutoCRLF string

const (
	AutoCRLFFalse AutoCRLF = "false"
	AutoCRLFTrue  AutoCRLF = "true"
	AutoCRLFInput AutoCRLF = "input"
)

// FilterOptions carries the config knobs hash_object/write_object need,
// decoupled from the config package so objstore has no dependency on it.
type FilterOptions struct {
	AutoCRLF     AutoCRLF
	ApplyFilters bool
	Filename     string
}

// binaryExtensions is the known-binary allowlist consulted by IsBinary
// before it falls back to byte sniffing.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".zip": true, ".gz": true, ".tar": true, ".pdf": true, ".exe": true,
	".dll": true, ".so": true, ".dylib": true, ".woff": true, ".woff2": true,
	".ttf": true, ".otf": true, ".mp3": true, ".mp4": true, ".mov": true,
}

// sniffWindow is how many leading bytes IsBinary inspects for a NUL byte.
const sniffWindow = 8000

// IsBinary is the pluggable binary-detection predicate from spec §4.5: known
// binary extensions pass through unfiltered, and otherwise content is
// classified binary if it contains a NUL in its first sniffWindow (8000)
// bytes or is not valid UTF-8.
func IsBinary(filename string, data []byte) bool {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if binaryExtensions[ext] {
			return true
		}
	}

	window := data
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	if bytes.IndexByte(window, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}

// normalizeNewlines replaces "\r\n" and stray "\r" with "\n".
func normalizeNewlines(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return data
}

// applyFilter runs the line-ending normalization filter from spec §4.5 step
// 1: only when filtering is requested, the content is classified non-binary,
// and core.autocrlf is "true" or "input".
func applyFilter(data []byte, opts FilterOptions) []byte {
	if !opts.ApplyFilters {
		return data
	}
	if opts.AutoCRLF != AutoCRLFTrue && opts.AutoCRLF != AutoCRLFInput {
		return data
	}
	if IsBinary(opts.Filename, data) {
		return data
	}
	return normalizeNewlines(data)
}

// HashObjectFiltered implements hash_object: apply the newline filter (when
// requested), then hash the canonical framing of the result.
func HashObjectFiltered(kind Kind, data []byte, opts FilterOptions) (OID, []byte) {
	filtered := applyFilter(data, opts)
	return HashObject(kind, filtered), filtered
}

// WriteObjectFiltered implements write_object: filter, then deflate and
// place the framed bytes into the sharded object directory.
func (s *Store) WriteObjectFiltered(kind Kind, data []byte, opts FilterOptions) (OID, error) {
	filtered := applyFilter(data, opts)
	return s.WriteLoose(kind, filtered)
}
