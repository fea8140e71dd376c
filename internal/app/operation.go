package app

import (
	"strings"
	"time"
)

// Operation tracks the CLI command being run. Its ID tags every line the
// command writes to the log file.
type Operation struct {
	ID         string
	Command    string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates an operation for command started at now.
func NewOperation(command string, params []string, now time.Time) *Operation {
	return &Operation{
		ID:         now.UTC().Format("20060102T150405Z"),
		Command:    command,
		Parameters: strings.Join(params, " "),
		Status:     "success",
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}
