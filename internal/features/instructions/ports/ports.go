package ports

import (
	"context"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/instructions/domain"
)

// InstructionProvider defines the secondary port against the core
// shipping-instructions API.
type InstructionProvider interface {
	// Init initializes (or returns the existing) instruction for an approved
	// quote submission. The call is idempotent on the core side.
	Init(ctx context.Context, sess *session.Session, quoteSubmissionID int64) (*domain.Instruction, error)
	// Get returns the instruction by ID.
	Get(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error)
	// GetForm loads the editable form and the AI suggestion bag.
	GetForm(ctx context.Context, sess *session.Session, id int64) (*domain.Form, map[string]any, error)
	// SaveForm applies a partial update to the form and returns the result.
	SaveForm(ctx context.Context, sess *session.Session, id int64, patch map[string]any) (*domain.Form, error)
	// UploadDocument sends one shipping document.
	UploadDocument(ctx context.Context, sess *session.Session, id int64, doc domain.DocumentUpload) (*domain.Document, error)
	// Finalize locks the form.
	Finalize(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error)
	// GenerateRO requests a routing order number.
	GenerateRO(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error)
	// NotifyForwarder notifies the freight forwarder of the routing order.
	NotifyForwarder(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error)
	// SaveForwarderReference records the forwarder's acknowledgment reference.
	SaveForwarderReference(ctx context.Context, sess *session.Session, id int64, reference string) (*domain.Instruction, error)
}

// QuoteGate answers whether a quote submission may spawn a shipping
// instruction. Satisfied by the quotes service.
type QuoteGate interface {
	CanGenerateInstruction(ctx context.Context, sess *session.Session, quoteSubmissionID int64) (bool, error)
}
