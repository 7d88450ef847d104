package igc

import (
	"errors"
	"fmt"
)

// ErrInputMissing is returned when neither a file path nor raw content
// was supplied to the parser.
var ErrInputMissing = errors.New("igc: no file path or content supplied")

// StructuralParseError reports a fix line that does not match the fixed
// B-record layout. A void fix (validity flag "V") is NOT a structural
// error; it is valid input and is skipped silently.
type StructuralParseError struct {
	Line    int    // 1-based line number in the source
	Content string // the offending line
	Err     error  // underlying cause, if any
}

func (e *StructuralParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("igc: malformed fix record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("igc: malformed fix record at line %d: %q", e.Line, e.Content)
}

func (e *StructuralParseError) Unwrap() error {
	return e.Err
}
