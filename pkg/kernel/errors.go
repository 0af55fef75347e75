package kernel

import "fmt"

// ConstructionError reports that the kernel failed to produce a valid
// solid, sweep, or boolean result. It is always fatal for the requested
// feature: callers receive no geometry and must not retry with adjusted
// tolerances. Partial shapes are never returned alongside it.
type ConstructionError struct {
	Stage string // operation that failed, e.g. "thread sweep"
	Err   error  // underlying kernel error, may be nil
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("construction failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("construction failed at %s", e.Stage)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Construct wraps a kernel error as a ConstructionError. A nil err
// returns nil so call sites can wrap unconditionally.
func Construct(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &ConstructionError{Stage: stage, Err: err}
}

// Constructf creates a ConstructionError with a formatted detail message
// and no underlying kernel error, for failures detected by validation
// rather than reported by the backend.
func Constructf(stage, format string, args ...any) error {
	return &ConstructionError{Stage: stage, Err: fmt.Errorf(format, args...)}
}
