// Package services defines the orchestration layer for journal entries.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrEntryNotFound is returned by synchronous updates and deletes when no
	// entry has the requested id.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrServiceClosed is returned when an operation is launched after the
	// service's scope has been cancelled.
	ErrServiceClosed = errors.New("service closed")
)
