// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing errors that know how to help: what was
// being attempted, on which resource, and what the user can do about it.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is an error with remediation context. The CLI layer
// renders Suggestions under the message; wrapped causes stay reachable for
// errors.Is/As.
//
//	return issue.New("download workshop items").
//		Resource("steamcmd").
//		Suggest("Install steamcmd: https://developer.valvesoftware.com/wiki/SteamCMD").
//		Wrap(err)
type ActionableError struct {
	Operation   string
	Res         string
	Suggestions []string
	Cause       error
}

// New starts an ActionableError for the given operation (a verb phrase
// such as "install workshop items").
func New(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// Resource records the file, path, or entity involved.
func (e *ActionableError) Resource(res string) *ActionableError {
	e.Res = res
	return e
}

// Suggest appends one remediation hint. Call repeatedly for several.
func (e *ActionableError) Suggest(hint string) *ActionableError {
	e.Suggestions = append(e.Suggestions, hint)
	return e
}

// Wrap records the underlying cause and returns the finished error.
func (e *ActionableError) Wrap(cause error) *ActionableError {
	e.Cause = cause
	return e
}

func (e *ActionableError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to ")
	sb.WriteString(e.Operation)
	if e.Res != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Res)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message with its suggestions; verbose additionally
// prints the wrapped error chain.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	for _, hint := range e.Suggestions {
		sb.WriteString("\n  • ")
		sb.WriteString(hint)
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return sb.String()
}
