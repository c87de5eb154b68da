package convert

import "fmt"

// ValidationError reports an input path that failed a precondition check.
// No filesystem mutation has happened when one is returned.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input `%s`: %s", e.Path, e.Reason)
}

// WorkspaceError reports a failure creating or populating the build workspace.
type WorkspaceError struct {
	Err error
}

func (e *WorkspaceError) Error() string {
	return "workspace: " + e.Err.Error()
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}
