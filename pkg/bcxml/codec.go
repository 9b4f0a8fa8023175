package bcxml

import (
	"encoding/xml"
	"fmt"

	"github.com/oakcam/neolink/pkg/bcerrors"
)

// Marshal renders v (a *BcXml or *Extension) as a UTF-8 document whose
// element order follows the struct-field order, so the same value always
// yields the same bytes. Empty elements are written as an open/close tag
// pair (encoding/xml's form), not as self-closing tags.
func Marshal(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bcerrors.ErrSerialization, err)
	}
	return out, nil
}

// Unmarshal parses body into v (a *BcXml or *Extension). Unknown elements
// are tolerated silently, per §4.2; only malformed XML syntax is an error.
func Unmarshal(body []byte, v any) error {
	if err := xml.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", bcerrors.ErrDeserialization, err)
	}
	return nil
}
