package rendering

import "fmt"

// TemplateError represents an error executing a LaTeX document template
type TemplateError struct {
	Document string // "cv" or "cover"
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error rendering %s: %v", e.Document, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
