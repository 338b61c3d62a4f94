package table

import (
	"github.com/google/go-cmp/cmp"
)

// tableSnapshot is the exported, comparable view of a Table used by Diff:
// Table itself carries unexported bookkeeping (opts, index, cloned) that
// has no bearing on "did two parses produce the same logical table".
type tableSnapshot struct {
	TableType       uint8
	Columns         []ColumnDefinition
	RecordSets      []RecordSet
	PassThroughRows []PassThroughRow
	Flags           RecordFlags
}

func snapshot(t *Table) tableSnapshot {
	return tableSnapshot{
		TableType:       t.tableType,
		Columns:         t.Columns,
		RecordSets:      t.RecordSets,
		PassThroughRows: t.PassThroughRows,
		Flags:           t.Flags,
	}
}

// Diff reports a human-readable structural difference between two parses of
// what is expected to be the same table (spec.md §9 Design Note on
// reproducing a second, independent reader's output for comparison) — an
// empty string means the two agree on every exported field. Useful for
// comparing a primary read against an alternate or re-parsed copy.
func Diff(a, b *Table) string {
	if a == nil || b == nil {
		if a == b {
			return ""
		}
		return cmp.Diff(a, b)
	}
	return cmp.Diff(snapshot(a), snapshot(b))
}

// DiagnosticsReport wraps a Diagnostics sink and funnels Diff output through
// it, so a caller comparing two reads doesn't need its own formatting logic
// on top of Diff's output.
type DiagnosticsReport struct {
	Diagnostics Diagnostics
}

// ReportDiff runs Diff(a, b) and, if non-empty, emits it through the
// wrapped Diagnostics (a nil Diagnostics silently discards, matching
// Options.Diagnostics's no-op convention). Returns the diff text either way.
func (r DiagnosticsReport) ReportDiff(label string, a, b *Table) string {
	diff := Diff(a, b)
	if diff == "" {
		return ""
	}
	d := r.Diagnostics
	if d == nil {
		d = noopDiagnostics{}
	}
	d.Notef("%s: tables differ:\n%s", label, diff)
	return diff
}
