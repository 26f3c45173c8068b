package insertdocs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownName reports a directive name the namespace cannot resolve.
	ErrUnknownName = errors.New("unknown object name")
	// ErrUnrenderable reports a resolved object of a kind that has no renderer.
	ErrUnrenderable = errors.New("cannot render object")
	// ErrUnterminatedBlock reports a start marker without a matching end marker.
	ErrUnterminatedBlock = errors.New("start marker without end marker")
	// ErrCycle reports a sequence that contains itself, directly or not.
	ErrCycle = errors.New("sequence contains itself")
)

// ParseError locates a malformed directive within a document.
type ParseError struct {
	Path string
	Line int
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&msg, "%s:", e.Path)
	}
	fmt.Fprintf(&msg, "%d: %s", e.Line, e.Name)
	if e.Err != nil {
		fmt.Fprint(&msg, ": ", e.Err)
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
