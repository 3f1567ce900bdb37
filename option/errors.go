package option

import "fmt"

// ParsingError is returned for every structural violation found while
// decoding. The message names the option and the rule that failed.
type ParsingError struct {
	Msg string
}

func (e *ParsingError) Error() string {
	return "parsing error: " + e.Msg
}

func parsingErrorf(format string, args ...interface{}) error {
	return &ParsingError{Msg: fmt.Sprintf(format, args...)}
}
