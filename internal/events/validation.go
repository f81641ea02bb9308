// Package events declares the typed events published on the bus while
// fixtures are validated.
package events

import "time"

// ValidationStart is emitted before a fixture validation run.
type ValidationStart struct {
	OperationName string
	Fixture       string
}

// ValidationFinish is emitted after a fixture validation run.
type ValidationFinish struct {
	OperationName    string
	Fixture          string
	StructuralErrors int
	TypeErrors       int
	Duration         time.Duration
}
