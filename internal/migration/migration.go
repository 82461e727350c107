package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// bom is the UTF-8 byte-order mark as a rune.
const bom = "\ufeff"

// File is a single SQL migration file read from disk.
type File struct {
	Path     string // Absolute path the file was read from
	Filename string // Base name, the bookkeeping key in schema_migrations
	SQL      string // File contents with any leading byte-order mark removed
	Checksum string // SHA-256 hex digest of SQL
}

// Statements splits the file contents into executable statements.
func (f *File) Statements() []string {
	return Statements(f.SQL)
}

// Load reads a migration file, strips a leading byte-order mark and
// computes its checksum.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading migration file %s: %w", path, err)
	}

	sql := StripBOM(string(data))

	return File{
		Path:     path,
		Filename: filepath.Base(path),
		SQL:      sql,
		Checksum: ComputeChecksum(sql),
	}, nil
}

// StripBOM removes every leading U+FEFF from s.
func StripBOM(s string) string {
	return strings.TrimLeft(s, bom)
}

// ComputeChecksum returns the SHA-256 hex digest of the given SQL string.
func ComputeChecksum(sql string) string {
	h := sha256.Sum256([]byte(sql))

	return hex.EncodeToString(h[:])
}
