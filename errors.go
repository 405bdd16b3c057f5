package depot

import "github.com/rotisserie/eris"

// Programmer errors. These are raised through panic and indicate a broken invariant upstream;
// no partial rollback is attempted.
var (
	ErrArgument         = eris.New("invalid argument")
	ErrTemplateNotLive  = eris.New("template is not alive")
	ErrForeignHandle    = eris.New("handle belongs to a different entity index")
	ErrEntityRemoved    = eris.New("entity has already been removed")
	ErrComponentRemoved = eris.New("component has been removed")
)

// Returned errors.
var (
	ErrDuplicateType = eris.New("component type already registered")
	ErrRegistryFull  = eris.New("component type registry is full")
	ErrInvalidConfig = eris.New("invalid configuration")
)

func fatal(err error, format string, args ...interface{}) {
	panic(eris.Wrapf(err, format, args...))
}
