// Package validation checks the untrusted values that cross the
// snapshot boundary: member paths read out of archives, and the leading
// bytes of archive files themselves.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// MaxMemberPath is the longest member path an archive may carry.
const MaxMemberPath = 4096

// Validation errors. Callers at package boundaries wrap these into the
// application error types; errors.Is still finds them.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrHeaderMismatch   = errors.New("archive header mismatch")
)

// MemberPath checks an archive member path before it is joined onto a
// destination directory. Paths are slash-separated as in the archive;
// a ".." segment anywhere is rejected outright, even where cleaning
// would cancel it out, since honest producers never write one.
func MemberPath(name string) error {
	if name == "" {
		return ErrEmptyPath
	}
	if len(name) > MaxMemberPath {
		return ErrPathTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character", ErrInvalidCharacter)
		}
	}
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("%w: backslash", ErrInvalidCharacter)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: absolute path", ErrPathTraversal)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %q", ErrPathTraversal, name)
		}
	}
	return nil
}

// archive magic numbers, by path suffix
var archiveMagic = []struct {
	suffix string
	format string
	magic  []byte
}{
	{".tar.gz", "gzip", []byte{0x1f, 0x8b}},
	{".tar.xz", "xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
}

// ArchiveHeader verifies that the leading bytes of an archive agree
// with what its path suffix promises. Suffixes this package does not
// know about pass unchecked; rejecting those is the caller's business.
func ArchiveHeader(path string, r io.ReaderAt) error {
	for _, sig := range archiveMagic {
		if !strings.HasSuffix(path, sig.suffix) {
			continue
		}
		buf := make([]byte, len(sig.magic))
		if _, err := r.ReadAt(buf, 0); err != nil {
			return fmt.Errorf("%w: shorter than a %s header", ErrHeaderMismatch, sig.format)
		}
		if !bytes.Equal(buf, sig.magic) {
			return fmt.Errorf("%w: not a %s file", ErrHeaderMismatch, sig.format)
		}
		return nil
	}
	return nil
}
