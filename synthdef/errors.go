package synthdef

import "errors"

// Errors returned by the graph builder, the compiler and the decompiler. They
// are wrapped with details, so test them with errors.Is.
var (
	// ErrUnknownParameter is returned when looking up a parameter that was
	// never declared in the builder.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrDuplicateParameter is returned when a parameter name is declared
	// twice in the same builder.
	ErrDuplicateParameter = errors.New("duplicate parameter")

	// ErrCrossScope is returned when a UGen is given a signal that belongs to
	// another builder. A graph cannot straddle two builders.
	ErrCrossScope = errors.New("signal belongs to another builder")

	// ErrBuilderClosed is returned when constructing UGens in a builder that
	// has been closed.
	ErrBuilderClosed = errors.New("builder is closed")

	ErrUnknownUGen   = errors.New("unknown ugen type")
	ErrReservedType  = errors.New("control ugens are created by the builder")
	ErrUnknownInput  = errors.New("unknown input")
	ErrMissingInput  = errors.New("missing required input")
	ErrInvalidRate   = errors.New("invalid calculation rate")
	ErrInputRate     = errors.New("input rate not allowed")
	ErrInvalidValue  = errors.New("invalid input value")
	ErrInvalidSignal = errors.New("invalid signal")

	// ErrCycle means that the topological sort could not order every UGen.
	// The builder only allows references to earlier UGens, so this is always
	// an internal error.
	ErrCycle = errors.New("ugen graph contains a cycle")

	// ErrForwardReference is returned when a synth definition would contain a
	// UGen reading from a UGen that comes after it.
	ErrForwardReference = errors.New("ugen references a later ugen")

	ErrNameTooLong = errors.New("name longer than 255 bytes")
	ErrNonASCII    = errors.New("name is not ASCII")

	ErrBadMagic   = errors.New(`bad magic, expected "SCgf"`)
	ErrVersion    = errors.New("unsupported synthdef file version")
	ErrTruncated  = errors.New("truncated synthdef data")
	ErrMalformed  = errors.New("malformed synthdef data")
	ErrBadControl = errors.New("control ugen does not match the parameters")
)
