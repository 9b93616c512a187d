package depot

import "github.com/rotisserie/eris"

var (
	ErrEntityNotFound     = eris.New("entity not found")
	ErrComponentNotFound  = eris.New("component not on entity")
	ErrDuplicateEntity    = eris.New("entity already stored")
	ErrDuplicateComponent = eris.New("component already on entity")
	ErrSignatureMismatch  = eris.New("values do not match table signature")
	ErrTypeLayoutMismatch = eris.New("value does not match component layout")
	ErrIndexOutOfRange    = eris.New("row index out of range")

	ErrInvalidLayout          = eris.New("invalid component layout")
	ErrComponentNotRegistered = eris.New("component is not registered")
	ErrComponentRegistered    = eris.New("component is already registered")
	ErrTooManyComponents      = eris.New("too many component types")
	ErrCacheFull              = eris.New("cache at maximum capacity")

	// ErrLocked is returned by structural mutations attempted while a cursor (or
	// an explicit Lock) holds the database. Use the Enqueue variants instead.
	ErrLocked    = eris.New("database is locked")
	ErrNotLocked = eris.New("unlock without matching lock")

	ErrWorldIDOverflow = eris.New("world id counter overflow")
)
