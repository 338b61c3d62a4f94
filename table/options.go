package table

// Diagnostics receives free-form progress/anomaly notes during parsing, the
// only escape hatch for what spec.md §9 calls "debug-output verbosity" in
// the source ("route all diagnostics through a trait passed in by the
// caller; no process-global flag"). A nil Diagnostics is a valid, silent
// no-op — callers that don't care about verbosity pass nothing.
//
// Mirrors the spirit of pkg/types.OpenOptions.CollectDiagnostics, scoped
// down to what a read-only table parser needs: this package has no repair
// or severity taxonomy to report, only notes.
type Diagnostics interface {
	Notef(format string, args ...any)
}

// noopDiagnostics discards every note; used when Options.Diagnostics is nil.
type noopDiagnostics struct{}

func (noopDiagnostics) Notef(string, ...any) {}

// Options controls how a Table is parsed, mirroring pkg/types.OpenOptions.
type Options struct {
	// FileType selects the HNID block/slot split (spec.md §3).
	FileType FileType

	// Tolerant is carried for callers but not consulted by any parser in
	// this package: zero-entry local-descriptor nodes and allocation-map
	// mismatches are fatal whatever its value.
	Tolerant bool

	// MaxRecordSets and MaxColumnDefinitions guard against absurd or
	// malicious row/column counts, mirroring OpenOptions.MaxCellSize.
	// Zero selects a conservative default.
	MaxRecordSets       int
	MaxColumnDefinitions int

	// MaxBTHDepth bounds the recursive BTH walk (spec.md §9: "add an
	// explicit recursion depth guard"); the local-descriptor walk has its
	// own fixed limit. Zero selects a conservative default.
	MaxBTHDepth int

	// Diagnostics receives progress/anomaly notes. Nil disables reporting.
	Diagnostics Diagnostics
}

const (
	defaultMaxRecordSets        = 1 << 20
	defaultMaxColumnDefinitions = 4096
	defaultMaxBTHDepth          = 32
)

// normalized returns a copy of o with zero fields replaced by their
// defaults and a non-nil Diagnostics.
func (o Options) normalized() Options {
	if o.MaxRecordSets == 0 {
		o.MaxRecordSets = defaultMaxRecordSets
	}
	if o.MaxColumnDefinitions == 0 {
		o.MaxColumnDefinitions = defaultMaxColumnDefinitions
	}
	if o.MaxBTHDepth == 0 {
		o.MaxBTHDepth = defaultMaxBTHDepth
	}
	if o.Diagnostics == nil {
		o.Diagnostics = noopDiagnostics{}
	}
	return o
}
