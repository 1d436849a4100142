package packstream

import "errors"

// ErrOverflow is returned by a Write* method when a value's size exceeds
// what its size prefix can represent.
var ErrOverflow = errors.New("packstream: value too large for its size prefix")

// ErrMalformed is returned by a Read* method on an unknown marker or
// truncated input.
var ErrMalformed = errors.New("packstream: malformed or truncated input")
