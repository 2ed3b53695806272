package document

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnknownTable = errors.New("unknown collection")
	ErrMissingID    = errors.New("document has no id field")
)
