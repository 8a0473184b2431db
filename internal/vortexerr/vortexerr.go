/*
NAME
  vortexerr.go

DESCRIPTION
  vortexerr defines the typed error kinds used across the vortex
  packages, and the non-fatal correction/integrity reports that
  travel alongside a successful reconstruction.
*/

// Package vortexerr provides the error kinds and reports shared by the
// vortex codec packages.
package vortexerr

import "github.com/pkg/errors"

// ConfigError wraps a failure to validate or derive Parameters.
type ConfigError struct{ err error }

// NewConfig wraps err as a ConfigError, adding context.
func NewConfig(context string, err error) *ConfigError {
	return &ConfigError{err: errors.Wrap(err, context)}
}

// Configf builds a ConfigError from a format string, with no underlying
// cause to wrap.
func Configf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{err: errors.Errorf(format, args...)}
}

func (e *ConfigError) Error() string { return "configuration: " + e.err.Error() }
func (e *ConfigError) Unwrap() error { return e.err }

// IOError wraps a failure to read, write, or otherwise access the
// filesystem or a frame store.
type IOError struct{ err error }

// NewIO wraps err as an IOError, adding context.
func NewIO(context string, err error) *IOError {
	return &IOError{err: errors.Wrap(err, context)}
}

func (e *IOError) Error() string { return "io: " + e.err.Error() }
func (e *IOError) Unwrap() error { return e.err }

// ExternalProcessError wraps a nonzero exit from the external video
// encoder or decoder.
type ExternalProcessError struct{ err error }

// NewExternalProcess wraps err as an ExternalProcessError, adding context.
func NewExternalProcess(context string, err error) *ExternalProcessError {
	return &ExternalProcessError{err: errors.Wrap(err, context)}
}

func (e *ExternalProcessError) Error() string { return "external process: " + e.err.Error() }
func (e *ExternalProcessError) Unwrap() error { return e.err }

// FramingError wraps a failure while locating or parsing the header, or
// in the structure of the frame stream.
type FramingError struct{ err error }

// NewFraming wraps err as a FramingError, adding context.
func NewFraming(context string, err error) *FramingError {
	return &FramingError{err: errors.Wrap(err, context)}
}

// Framingf builds a FramingError from a format string, with no
// underlying cause to wrap.
func Framingf(format string, args ...interface{}) *FramingError {
	return &FramingError{err: errors.Errorf(format, args...)}
}

func (e *FramingError) Error() string { return "framing: " + e.err.Error() }
func (e *FramingError) Unwrap() error { return e.err }

// CorrectionReport tallies single-bit corrections and uncorrectable
// double-bit errors observed while decoding a Hamming-protected stream.
// It never represents a fatal condition; it is returned alongside a
// successful ReconstructFile.
type CorrectionReport struct {
	// CorrectedErrors counts single-bit errors that were detected and
	// repaired.
	CorrectedErrors uint32

	// UncorrectedErrors counts double-bit errors that were detected but
	// could not be repaired. The affected data bits are delivered as-is.
	UncorrectedErrors uint32
}

// IntegrityReport records whether the recovered payload's SHA-256
// matched the hash carried in the header. A mismatch is never fatal;
// the recovered bytes are still delivered.
type IntegrityReport struct {
	// HashMatch is true when the recomputed SHA-256 of the recovered
	// payload equals the hash recorded in the header.
	HashMatch bool

	// Expected is the hash recorded in the header.
	Expected [32]byte

	// Computed is the hash recomputed over the recovered payload.
	Computed [32]byte
}
