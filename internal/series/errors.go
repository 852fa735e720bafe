package series

import "errors"

var (
	// ErrNoData is returned by strict lookups when nothing matches the key.
	ErrNoData = errors.New("series: no data")
	// ErrOutOfRange is returned for positional access outside the collection length.
	ErrOutOfRange = errors.New("series: index out of range")
	// ErrUnknownCollection is returned when a registry has no collection with the given name.
	ErrUnknownCollection = errors.New("series: unknown collection")
	// ErrDuplicateCollection is returned when registering a name twice.
	ErrDuplicateCollection = errors.New("series: duplicate collection")
)
