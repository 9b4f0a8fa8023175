package bcwire

import (
	"errors"
	"fmt"

	"github.com/oakcam/neolink/pkg/bcerrors"
)

// Unexported sentinels behind IsMalformed, layered on top of the shared
// bcerrors taxonomy; callers outside this package match the bcerrors values
// they wrap with errors.Is.
var (
	errMalformedHeader = fmt.Errorf("%w: %w: bad header", bcerrors.ErrDeserialization, bcerrors.ErrMalformed)
	errMalformedXML    = fmt.Errorf("%w: %w: bad xml", bcerrors.ErrDeserialization, bcerrors.ErrMalformed)
	errUnsupportedBody = fmt.Errorf("%w: unsupported legacy body", bcerrors.ErrSerialization)
)

// IncompleteError reports that a Decode call needs more bytes than the
// source currently offers. Decode has already consumed the bytes it read,
// so the partial packet cannot be resumed; pkg/bcconn treats it as a
// communication failure.
type IncompleteError struct {
	Needed int // additional bytes required, when known; 0 if unknown
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("incomplete packet: need %d more bytes", e.Needed)
	}
	return "incomplete packet"
}

func (e *IncompleteError) Unwrap() error { return bcerrors.ErrDeserialization }

// IsIncomplete reports whether err is an IncompleteError.
func IsIncomplete(err error) bool {
	var ie *IncompleteError
	return errors.As(err, &ie)
}

// IsMalformed reports whether err originated from a malformed-header/body/xml check.
func IsMalformed(err error) bool {
	return errors.Is(err, errMalformedHeader) || errors.Is(err, errMalformedXML) || errors.Is(err, errUnsupportedBody)
}
