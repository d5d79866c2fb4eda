// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error reporting and exit codes for steptrail commands.
//
// Commands always return errors; Execute displays them once and maps them
// to an exit code.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/steptrail/internal/config"
	"github.com/jeranaias/steptrail/internal/feed"
	"github.com/jeranaias/steptrail/internal/integrations"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitStoreError indicates the integration store could not be read
	ExitStoreError = 4
	// ExitInputError indicates an unusable transcript
	ExitInputError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a bad flag or argument value.
type UsageError struct {
	Field  string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// configError marks failures that came from loading configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err in the standard format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitNotFoundError
	}

	var cfgErr *configError
	var validateErrs config.ValidateErrors
	if errors.As(err, &cfgErr) || errors.As(err, &validateErrs) {
		return ExitConfigError
	}

	switch {
	case errors.Is(err, integrations.ErrStoreUnavailable),
		errors.Is(err, integrations.ErrMalformedStore),
		errors.Is(err, integrations.ErrUnknownBackend):
		return ExitStoreError
	case errors.Is(err, feed.ErrEmptyTranscript):
		return ExitInputError
	}
	return ExitGeneralError
}
