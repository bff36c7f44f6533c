package geo

import "fmt"

// ParseError describes one malformed coordinate token
// Parse drops such tokens instead of failing the whole input
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed coordinate %q: %s", e.Token, e.Reason)
}

// ValidationError is returned when parsed input cannot be used for a query
// Its message is meant to be shown to the user as is
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
