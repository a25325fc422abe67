package symdiff

import "fmt"

type BracketingError struct {
	Fragment string
	Index    int
}

func (e *BracketingError) Error() string {
	return fmt.Sprintf("unbalanced brackets in %q at index %d", e.Fragment, e.Index)
}

type ParseError struct {
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot parse %q", e.Fragment)
	}

	return fmt.Sprintf("cannot parse %q: %s", e.Fragment, e.Reason)
}

// NameCollisionError reports a declared variable that shadows an operator
// symbol or a function name of the active registry.
type NameCollisionError struct {
	Name     string
	Operator string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("variable %q collides with operator %q", e.Name, e.Operator)
}

// InvalidNameError reports a declared variable that is not an identifier: a
// letter followed by letters, digits or underscores.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("variable name %q is not an identifier", e.Name)
}

type EvaluationError struct {
	Name string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("no binding for variable %q", e.Name)
}

type UndifferentiableError struct {
	Operator string
}

func (e *UndifferentiableError) Error() string {
	return fmt.Sprintf("operator %q has no derivative rule", e.Operator)
}

// NestingDepthError reports input brackets nested too deeply or, when
// Bracketed is set, a chain of operators too long once grouping is explicit.
type NestingDepthError struct {
	Depth     int
	Max       int
	Bracketed bool
}

func (e *NestingDepthError) Error() string {
	if e.Bracketed {
		return fmt.Sprintf("operator nesting depth %d exceeds maximum %d", e.Depth, e.Max)
	}

	return fmt.Sprintf("nesting depth %d exceeds maximum %d", e.Depth, e.Max)
}

// MissingOperatorError is returned when a rewrite or derivative rule needs an
// operator that the active registry does not provide.
type MissingOperatorError struct {
	Symbol string
}

func (e *MissingOperatorError) Error() string {
	return fmt.Sprintf("operator %q is not registered", e.Symbol)
}

type RewriteLimitError struct {
	Limit int
}

func (e *RewriteLimitError) Error() string {
	return fmt.Sprintf("simplification did not settle after %d rewrites", e.Limit)
}

type LoweringError struct {
	Reason string
}

func (e *LoweringError) Error() string {
	return "cannot lower expression: " + e.Reason
}
