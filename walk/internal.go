package walk

import (
	"fmt"

	"github.com/glint-lang/cfgbuild/ast"
	"tlog.app/go/errors"
	"tlog.app/go/loc"
)

// InternalError wraps a fatal violation of an earlier pass's contract.
type InternalError struct {
	Loc         ast.Loc
	Breadcrumbs []loc.PC
	Cause       error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error building cfg: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

type internalPanic struct {
	cause       error
	breadcrumbs []loc.PC
}

func (p *internalPanic) Error() string { return p.cause.Error() }
func (p *internalPanic) Unwrap() error { return p.cause }

func internalErrorf(format string, args ...any) {
	panic(&internalPanic{
		cause:       errors.New(format, args...),
		breadcrumbs: loc.Callers(1, 8),
	})
}
