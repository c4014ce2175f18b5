package udf

import "errors"

// Error kinds returned by this package. Match them with errors.Is; the
// underlying cause stays in the chain.
var (
	// ErrInvalidArgument reports an empty path, a wrong extension or an
	// invalid option.
	ErrInvalidArgument = errors.New("udf: invalid argument")
	// ErrNotFound reports a missing document or a missing archive member.
	ErrNotFound = errors.New("udf: not found")
	// ErrInvalidFormat reports a file that is not a usable archive.
	ErrInvalidFormat = errors.New("udf: invalid format")
	// ErrParse reports a payload that is not well-formed XML.
	ErrParse = errors.New("udf: parse error")
	// ErrContentUnavailable is the single error kind returned by
	// Reader.Content. It wraps whichever of the above caused it.
	ErrContentUnavailable = errors.New("udf: content unavailable")
)
