// Package table implements the heap-on-node / BTree-on-heap / Table Context
// / Property Context parser: it turns a descriptor's raw data (a logically
// contiguous buffer composed of many physical blocks) into a sequence of
// typed MAPI property records.
package table

// ErrKind classifies errors so callers can branch on intent rather than
// text, mirroring pkg/types.ErrKind.
type ErrKind int

const (
	// ErrKindInvalidArgument marks a null/out-of-range caller input.
	ErrKindInvalidArgument ErrKind = iota
	// ErrKindInvalidFormat marks a signature/magic/length invariant
	// violated on disk.
	ErrKindInvalidFormat
	// ErrKindUnsupportedValue marks a known-shape but unknown enumeration
	// (e.g. table type 0x00, an unrecognized multi-value type tag).
	ErrKindUnsupportedValue
	// ErrKindOutOfBounds marks an HNID selector or offset past the end of
	// its container.
	ErrKindOutOfBounds
	// ErrKindIO marks a collaborator read failure.
	ErrKindIO
	// ErrKindMissingData marks an expected sub-node or descriptor that
	// isn't present.
	ErrKindMissingData
	// ErrKindConversionFailed marks a string/codec translation that could
	// not complete.
	ErrKindConversionFailed
	// ErrKindValueMismatch marks a typed accessor called against the
	// wrong value type or length.
	ErrKindValueMismatch
)

// String renders a human-readable kind name, mostly for diagnostics.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "InvalidArgument"
	case ErrKindInvalidFormat:
		return "InvalidFormat"
	case ErrKindUnsupportedValue:
		return "UnsupportedValue"
	case ErrKindOutOfBounds:
		return "OutOfBounds"
	case ErrKindIO:
		return "Io"
	case ErrKindMissingData:
		return "MissingData"
	case ErrKindConversionFailed:
		return "ConversionFailed"
	case ErrKindValueMismatch:
		return "ValueMismatch"
	default:
		return "Unknown"
	}
}

// Error is a typed error with an optional underlying cause, mirroring
// pkg/types.Error.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target shares this error's Kind, so callers can use
// errors.Is(err, table.ErrInvalidFormat) without matching the exact
// sentinel's Msg/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for the common, message-less cases; wrap with Err for context.
var (
	ErrInvalidArgument   = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
	ErrInvalidFormat     = &Error{Kind: ErrKindInvalidFormat, Msg: "invalid format"}
	ErrUnsupportedValue  = &Error{Kind: ErrKindUnsupportedValue, Msg: "unsupported value"}
	ErrOutOfBounds       = &Error{Kind: ErrKindOutOfBounds, Msg: "out of bounds"}
	ErrIO                = &Error{Kind: ErrKindIO, Msg: "i/o failure"}
	ErrMissingData       = &Error{Kind: ErrKindMissingData, Msg: "missing data"}
	ErrConversionFailed  = &Error{Kind: ErrKindConversionFailed, Msg: "conversion failed"}
	ErrValueMismatch     = &Error{Kind: ErrKindValueMismatch, Msg: "value mismatch"}
	ErrClonedSnapshot    = &Error{Kind: ErrKindInvalidArgument, Msg: "clone is a read-only snapshot: index and descriptor data are not attached"}
)

// wrap builds a new *Error of kind with msg, optionally chaining cause.
func wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
