// SPDX-License-Identifier: MIT

package store

import "fmt"

// ParseError reports a document that exists on disk but does not parse.
// It is never swallowed: callers decide whether to degrade or fail.
type ParseError struct {
	Path string // file that failed to parse
	Err  error  // underlying decode error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
