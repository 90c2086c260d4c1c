package structure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
)

// ErrUnstructurable is matched by every failure of Structure.
var ErrUnstructurable = errors.New("cannot structure control flow")

// ErrIrreducible is returned when dominator analysis does not verify.
var ErrIrreducible = fmt.Errorf("%w: control flow is irreducible", ErrUnstructurable)

// MissingBlockError reports a jump to a label that has no block.
type MissingBlockError struct {
	Label cfg.Label
}

func (e *MissingBlockError) Error() string {
	return fmt.Sprintf("missing block %v", e.Label)
}

func (e *MissingBlockError) Unwrap() error { return ErrUnstructurable }

// MultipleBreakTargetsError reports a loop whose breaks lead to different blocks.
type MultipleBreakTargetsError struct {
	Header  cfg.Label
	Targets []cfg.Label
}

func (e *MultipleBreakTargetsError) Error() string {
	ts := make([]string, len(e.Targets))
	for i, t := range e.Targets {
		ts[i] = t.String()
	}
	return fmt.Sprintf("multiple break targets from %v (%s)", e.Header, strings.Join(ts, ", "))
}

func (e *MultipleBreakTargetsError) Unwrap() error { return ErrUnstructurable }

// UnsupportedBranchError reports a conditional whose arms do not meet again
// at a single block.
type UnsupportedBranchError struct {
	From cfg.Label
	Then cfg.Label
	Else cfg.Label
}

func (e *UnsupportedBranchError) Error() string {
	return fmt.Sprintf("unsupported conditional branch from %v to %v and %v", e.From, e.Then, e.Else)
}

func (e *UnsupportedBranchError) Unwrap() error { return ErrUnstructurable }

// UnexpectedEdgeError reports control left dangling where a region had to be closed.
type UnexpectedEdgeError struct {
	From cfg.Label
	To   cfg.Label
}

func (e *UnexpectedEdgeError) Error() string {
	return fmt.Sprintf("unexpected edge from %v to %v", e.From, e.To)
}

func (e *UnexpectedEdgeError) Unwrap() error { return ErrUnstructurable }
