package ingest

import (
	"github.com/cockroachdb/errors"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrMalformedRecord marks a record missing a required attribute. Skipped
	// and counted unless the adapter runs in strict mode.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrSourceUnavailable marks a failed retrieval from a source.
	ErrSourceUnavailable = errors.New("source unavailable")
)

func malformed(src string, index int, id, format string, args ...interface{}) error {
	err := errors.Newf(format, args...)
	if id != "" {
		err = errors.Wrapf(err, "%s record %d (id %q)", src, index, id)
	} else {
		err = errors.Wrapf(err, "%s record %d", src, index)
	}
	return errors.Mark(err, ErrMalformedRecord)
}

func unavailable(src string, err error) error {
	return errors.Mark(errors.Wrapf(err, "fetch %s", src), ErrSourceUnavailable)
}
