package bcmedia

import (
	"errors"
	"fmt"

	"github.com/oakcam/neolink/pkg/bcerrors"
)

var errUnknownMagic = fmt.Errorf("%w: %w: unknown chunk magic", bcerrors.ErrDeserialization, bcerrors.ErrMalformed)

// IncompleteError reports that Next needs more bytes than Feed has supplied
// so far. Needed is the additional byte count when the reframer can name
// it exactly (it usually can, once the fixed fields of a chunk are in
// hand); it is 0 when even the 4-byte magic hasn't arrived yet.
type IncompleteError struct {
	Needed int
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("incomplete chunk: need %d more bytes", e.Needed)
	}
	return "incomplete chunk"
}

func (e *IncompleteError) Unwrap() error { return bcerrors.ErrDeserialization }

// IsIncomplete reports whether err is an IncompleteError.
func IsIncomplete(err error) bool {
	var ie *IncompleteError
	return errors.As(err, &ie)
}

// IsMalformed reports whether err is a malformed-chunk error: an
// unrecognized chunk magic, or a size field too small for its chunk kind.
func IsMalformed(err error) bool {
	return errors.Is(err, errUnknownMagic)
}
