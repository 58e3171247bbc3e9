// Package types defines core data structures shared across the rename engine,
// the vault host and the command surfaces.
package types

import (
	"time"
)

// FileDescriptor is the read-only view of a file inside the vault.
type FileDescriptor struct {
	// Path is the vault-relative, slash-separated path (e.g. "notes/Ideas.md").
	Path string
	// BaseName is the file name without directory and without extension.
	BaseName string
	// Extension is the file extension without dot (e.g., "md"). May be empty.
	Extension string
	// Dir is the containing directory. The vault root is "".
	Dir string
	// CreatedAt is the creation timestamp reported by the host.
	CreatedAt time.Time
	// ModifiedAt is the modification timestamp reported by the host.
	ModifiedAt time.Time
}

// Name returns the file name including extension.
func (d FileDescriptor) Name() string {
	if d.Extension == "" {
		return d.BaseName
	}
	return d.BaseName + "." + d.Extension
}

// Position selects where the date is placed relative to the base name.
type Position string

const (
	PositionPrepend Position = "prepend"
	PositionAppend  Position = "append"
)

// DateSource selects which point in time is used for the date.
type DateSource string

const (
	DateSourceNow      DateSource = "now"
	DateSourceCreated  DateSource = "created"
	DateSourceModified DateSource = "modified"
)

// ConflictStrategy defines how to handle an occupied target path.
type ConflictStrategy string

const (
	ConflictAppendCounter ConflictStrategy = "append-counter"
	ConflictSkip          ConflictStrategy = "skip"
)

// RenameAction represents the outcome of a single rename invocation.
type RenameAction string

const (
	RenameActionRenamed  RenameAction = "renamed"
	RenameActionResolved RenameAction = "resolved"
	RenameActionSkipped  RenameAction = "skipped"
	RenameActionPreview  RenameAction = "preview"
	RenameActionFailed   RenameAction = "failed"
)

// RenameResult is what the command boundary reports back to its caller.
type RenameResult struct {
	// Source is the path of the file before the operation.
	Source string `json:"source"`
	// Dest is the final path. Empty when nothing was renamed.
	Dest string `json:"dest,omitempty"`
	// FinalName is the final file name including extension.
	FinalName string `json:"final_name,omitempty"`
	// FormattedDate is the date string that was composed into the name.
	FormattedDate string       `json:"formatted_date,omitempty"`
	Action        RenameAction `json:"action"`
	// Counter is the suffix number used during conflict resolution, 0 if none.
	Counter int `json:"counter,omitempty"`
	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty"`
	// Message is the user-facing notice text.
	Message string `json:"message"`
}

// RenameRecord is one journal entry for a completed rename.
type RenameRecord struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Action    RenameAction `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
}
