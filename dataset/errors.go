package dataset

import "errors"

var (
	// ErrNotFound is returned when no candidate location holds the file.
	ErrNotFound = errors.New("dataset not found")
	// ErrNoValidRecords is returned when a source parses but no row survives
	// normalization.
	ErrNoValidRecords = errors.New("no valid data records")
	// ErrAllSourcesFailed is returned by a combined load when every source
	// failed.
	ErrAllSourcesFailed = errors.New("failed to load any data files")
	// ErrUnknownKind is returned for dataset kinds other than daily/yearly.
	ErrUnknownKind = errors.New("unknown dataset kind")
	// ErrInvalidName rejects file names that would escape the dataset
	// directory.
	ErrInvalidName = errors.New("invalid dataset name")
)
