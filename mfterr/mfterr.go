// Package mfterr contains the error taxonomy used throughout mftwalk: typed,
// wrapped errors for the handful of failure modes that a caller might need to
// discriminate (a bad read, a hole in the block index, a record with no name),
// as opposed to the plain fmt.Errorf errors used for everything else.
package mfterr

import (
	"errors"
	"fmt"
)

// ErrMissingFileNameAttribute is returned by the path resolver when a record
// has no usable $FILE_NAME attribute to build a path component from. Checked
// with errors.Is since callers treat it as "stop walking, not a bug".
var ErrMissingFileNameAttribute = errors.New("mft: record has no usable file name attribute")

// ValueReadError wraps a failure to decode a named field of a given kind (eg.
// "uint64", "FileReference") out of a byte buffer.
type ValueReadError struct {
	Field string
	Kind  string
	Cause error
}

func ValueRead(field, kind string, cause error) error {
	return &ValueReadError{Field: field, Kind: kind, Cause: cause}
}

func (e *ValueReadError) Error() string {
	return fmt.Sprintf("mft: read field %s as %s: %v", e.Field, e.Kind, e.Cause)
}

func (e *ValueReadError) Unwrap() error { return e.Cause }

// BufferFillError wraps a failure to fill a buffer of size bytes at offset
// from a reader (short read, EOF, seek failure).
type BufferFillError struct {
	Offset int64
	Size   int64
	Cause  error
}

func BufferFill(offset, size int64, cause error) error {
	return &BufferFillError{Offset: offset, Size: size, Cause: cause}
}

func (e *BufferFillError) Error() string {
	return fmt.Sprintf("mft: fill %d bytes at offset %d: %v", e.Size, e.Offset, e.Cause)
}

func (e *BufferFillError) Unwrap() error { return e.Cause }

// MissingBlockError indicates the block index has no Block of the requested
// kind for the requested entry id, eg. when an AttributeList entry points at
// a record that was never indexed (outside the file, or itself unreadable).
type MissingBlockError struct {
	Kind    string
	EntryID uint64
}

func MissingBlock(kind string, entryID uint64) error {
	return &MissingBlockError{Kind: kind, EntryID: entryID}
}

func (e *MissingBlockError) Error() string {
	return fmt.Sprintf("mft: no %s block for entry %d", e.Kind, e.EntryID)
}
