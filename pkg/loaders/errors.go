package loaders

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ParseError reports a malformed line in a scene file
type ParseError struct {
	Line    int    // 1-based line number, 0 when the problem is the file as a whole
	Tag     string // Object tag of the offending line, if known
	Message string

	inner error
	frame xerrors.Frame
}

func newParseError(line int, tag, message string, inner error) *ParseError {
	return &ParseError{
		Line:    line,
		Tag:     tag,
		Message: message,
		inner:   inner,
		frame:   xerrors.Caller(1),
	}
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Tag != "" {
		msg = fmt.Sprintf("%s: %s", e.Tag, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.inner != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.inner)
	}
	return msg
}

func (e *ParseError) Format(f fmt.State, c rune) { // implements fmt.Formatter
	xerrors.FormatError(e, f, c)
}

func (e *ParseError) FormatError(p xerrors.Printer) error { // implements xerrors.Formatter
	if e.Line > 0 {
		p.Printf("line %d: %s %s", e.Line, e.Tag, e.Message)
	} else {
		p.Printf("%s %s", e.Tag, e.Message)
	}
	if p.Detail() {
		e.frame.Format(p)
	}
	return e.inner
}

func (e *ParseError) Unwrap() error {
	return e.inner
}
