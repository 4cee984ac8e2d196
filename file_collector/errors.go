package file_collector

import (
	"errors"
	"fmt"
)

// Errors surfaced to the user. None of them is fatal.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotADirectory  = errors.New("not a valid directory")
	ErrNotText        = errors.New("Not a text file")
	ErrReadFailure    = errors.New("read failure")
	ErrTooManyResults = errors.New("too many results")
	ErrNoSelection    = errors.New("no selection")
	ErrNoMatches      = errors.New("no matching files found")
)

// TooManyResultsError reports a search whose match count exceeded the cap.
type TooManyResultsError struct {
	Found int
	Max   int
}

func (e *TooManyResultsError) Error() string {
	return fmt.Sprintf("Found %d files. Please narrow your search criteria (max: %d files).", e.Found, e.Max)
}

func (e *TooManyResultsError) Unwrap() error {
	return ErrTooManyResults
}
