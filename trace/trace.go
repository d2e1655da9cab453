// Package trace parses and replays allocator workload scripts. A script is
// a line-oriented text file driving one allocator: each line allocates,
// resizes, or frees a numbered block. Scripts let a workload be captured
// once and replayed against any Allocator implementation, with an optional
// per-step hook for invariant checking.
//
// Script format, one directive per line:
//
//	# comment
//	a <id> <size>    allocate <size> bytes as block <id>
//	r <id> <size>    resize block <id> to <size> bytes
//	f <id>           free block <id>
//
// Blank lines and lines starting with # are ignored. Directives are ASCII;
// comment text is read through a Windows-1252 decoder so scripts exported
// from non-UTF-8 tooling still parse.
package trace

import "fmt"

// OpKind identifies one script directive. The values are the directive
// letters themselves.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

// Op is one parsed directive. Size is meaningless for OpFree.
type Op struct {
	Kind OpKind
	ID   int
	Size int
}

// String renders the op in script form.
func (op Op) String() string {
	if op.Kind == OpFree {
		return fmt.Sprintf("%c %d", op.Kind, op.ID)
	}
	return fmt.Sprintf("%c %d %d", op.Kind, op.ID, op.Size)
}

// Script is a parsed workload.
type Script struct {
	Name string // Base name of the source file, "" when parsed from a reader
	Ops  []Op
}
