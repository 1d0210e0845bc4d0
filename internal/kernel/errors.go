package kernel

import (
	stderrors "errors"
	"strings"
)

// ErrMissingDependency is matched by every MissingDependencyError
var ErrMissingDependency = stderrors.New("kernel: missing dependency")

// MissingDependencyError lists the infrastructure Wire could not find
type MissingDependencyError struct {
	Deps []string
}

func (e *MissingDependencyError) Error() string {
	return "kernel: missing " + strings.Join(e.Deps, ", ")
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}
