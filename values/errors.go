package values

import "errors"

var (
	errRelationshipAlreadyRebound = errors.New("values: relationship endpoints already bound")
	errPathEmptyNodes             = errors.New("values: path requires at least one node")
	errPathOddSequence            = errors.New("values: path sequence must have an even length")
	errPathRelIndex               = errors.New("values: path sequence relationship index out of range")
	errPathNodeIndex              = errors.New("values: path sequence node index out of range")
)
