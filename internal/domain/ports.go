package domain

import "context"

// PartKind tags the variants of a protocol part.
type PartKind string

const (
	PartKindText         PartKind = "text"
	PartKindInlineBinary PartKind = "inline_data"
)

// Part is a closed union: TextPart or InlineBinaryPart.
type Part interface {
	Kind() PartKind
	isPart()
}

type TextPart struct {
	Text string
}

func (TextPart) Kind() PartKind { return PartKindText }
func (TextPart) isPart()        {}

// InlineBinaryPart carries raw bytes; adapters encode them for the wire.
type InlineBinaryPart struct {
	MIMEType string
	Data     []byte
}

func (InlineBinaryPart) Kind() PartKind { return PartKindInlineBinary }
func (InlineBinaryPart) isPart()        {}

// ProtocolTurn is one role-tagged entry of the history replayed to the gateway.
type ProtocolTurn struct {
	Role  Role
	Parts []Part
}

// GenerationRequest is everything the gateway needs for one stateless call.
type GenerationRequest struct {
	Model             string
	Contents          []ProtocolTurn
	SystemInstruction string
	Temperature       float32
}

// Gateway is the remote multi-modal completion service.
// An empty string with a nil error means the backend produced no usable text.
type Gateway interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// TaskStore defines task persistence. Implementations are best-effort.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTaskStatus(ctx context.Context, id TaskID, status TaskStatus) error
	DeleteTask(ctx context.Context, id TaskID) error
}

// PreferenceStore defines preference persistence.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, prefs Preferences) error
}
