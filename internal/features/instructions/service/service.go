package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/instructions/domain"
	"comex-portal/internal/features/instructions/ports"
)

var (
	// ErrInstructionNotFound is returned when the instruction does not exist.
	ErrInstructionNotFound = errors.New("shipping instruction not found")
	// ErrQuoteNotApproved is returned when initializing from a submission
	// that is not approved.
	ErrQuoteNotApproved = errors.New("quote submission is not approved")
	// ErrROAlreadyGenerated is returned when a routing order already exists.
	// The action stays disabled for good once a number was issued.
	ErrROAlreadyGenerated = errors.New("routing order already generated")
	// ErrRONotReady is returned when requesting a routing order before the
	// form is finalized.
	ErrRONotReady = errors.New("instruction is not finalized")
	// ErrNotifyNotReady is returned when notifying the forwarder without a
	// generated routing order.
	ErrNotifyNotReady = errors.New("routing order has not been generated")
	// ErrConfirmNotReady is returned when saving a forwarder reference before
	// the forwarder was notified.
	ErrConfirmNotReady = errors.New("forwarder has not been notified")
	// ErrInvalidDocumentType is returned for a document type outside the enum.
	ErrInvalidDocumentType = errors.New("invalid document type")
	// ErrEmptyReference is returned for a blank forwarder reference.
	ErrEmptyReference = errors.New("forwarder reference is required")
)

// ValidationError carries per-field messages when a form fails local
// validation before finalize.
type ValidationError struct {
	// Fields maps field names to their validation messages.
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return fmt.Sprintf("form validation failed: %s", strings.Join(names, ", "))
}

// InstructionService drives the shipping-instruction pipeline. All state
// lives in the core system; this service enforces the pipeline guards and
// projects the wizard step onto every returned instruction.
type InstructionService struct {
	provider ports.InstructionProvider
	quotes   ports.QuoteGate
}

// NewInstructionService creates a new InstructionService.
func NewInstructionService(provider ports.InstructionProvider, quotes ports.QuoteGate) *InstructionService {
	return &InstructionService{
		provider: provider,
		quotes:   quotes,
	}
}

// Init initializes the instruction for an approved quote submission. The
// core call is idempotent, so re-entering the wizard resumes where the
// importer left off.
func (s *InstructionService) Init(ctx context.Context, sess *session.Session, quoteSubmissionID int64) (*domain.Instruction, error) {
	allowed, err := s.quotes.CanGenerateInstruction(ctx, sess, quoteSubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quote approval: %w", err)
	}
	if !allowed {
		return nil, ErrQuoteNotApproved
	}

	inst, err := s.provider.Init(ctx, sess, quoteSubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instruction: %w", err)
	}

	return s.project(inst), nil
}

// Get returns the instruction with its derived wizard step.
func (s *InstructionService) Get(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	inst, err := s.provider.Get(ctx, sess, id)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrInstructionNotFound
		}
		return nil, fmt.Errorf("failed to get instruction: %w", err)
	}
	return s.project(inst), nil
}

// GetForm loads the editable form with AI suggestions merged into empty
// fields.
func (s *InstructionService) GetForm(ctx context.Context, sess *session.Session, id int64) (*domain.FormView, error) {
	form, bag, err := s.provider.GetForm(ctx, sess, id)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrInstructionNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	return &domain.FormView{
		Form:          form.MergeAISuggestions(bag),
		AISuggestions: bag,
	}, nil
}

// SaveForm applies a partial update. Upstream per-field errors pass through
// untouched so the frontend can keep the importer's input intact.
func (s *InstructionService) SaveForm(ctx context.Context, sess *session.Session, id int64, patch map[string]any) (*domain.Form, error) {
	form, err := s.provider.SaveForm(ctx, sess, id, patch)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrInstructionNotFound
		}
		return nil, err
	}
	return form, nil
}

// UploadDocument sends one shipping document after checking the type enum.
func (s *InstructionService) UploadDocument(ctx context.Context, sess *session.Session, id int64, doc domain.DocumentUpload) (*domain.Document, error) {
	if !doc.Type.IsValid() {
		return nil, ErrInvalidDocumentType
	}

	uploaded, err := s.provider.UploadDocument(ctx, sess, id, doc)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrInstructionNotFound
		}
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}
	return uploaded, nil
}

// Finalize validates the form locally and locks it. Local validation fails
// fast with per-field messages; the core system still has the final word.
func (s *InstructionService) Finalize(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	form, bag, err := s.provider.GetForm(ctx, sess, id)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrInstructionNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	merged := form.MergeAISuggestions(bag)
	if fields := merged.Validate(); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	inst, err := s.provider.Finalize(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.project(inst), nil
}

// GenerateRO requests a routing order. Refused permanently once a number
// exists.
func (s *InstructionService) GenerateRO(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	inst, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if inst.RONumber != "" {
		return nil, ErrROAlreadyGenerated
	}
	if !inst.CanGenerateRO() {
		return nil, ErrRONotReady
	}

	generated, err := s.provider.GenerateRO(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.project(generated), nil
}

// NotifyForwarder notifies the forwarder of the generated routing order.
func (s *InstructionService) NotifyForwarder(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	inst, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !inst.CanNotifyForwarder() {
		return nil, ErrNotifyNotReady
	}

	notified, err := s.provider.NotifyForwarder(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.project(notified), nil
}

// SaveForwarderReference records the forwarder's acknowledgment and closes
// the pipeline.
func (s *InstructionService) SaveForwarderReference(ctx context.Context, sess *session.Session, id int64, reference string) (*domain.Instruction, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrEmptyReference
	}

	inst, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !inst.CanConfirmForwarder() {
		return nil, ErrConfirmNotReady
	}

	confirmed, err := s.provider.SaveForwarderReference(ctx, sess, id, reference)
	if err != nil {
		return nil, err
	}
	return s.project(confirmed), nil
}

func (s *InstructionService) project(inst *domain.Instruction) *domain.Instruction {
	inst.Step = domain.DeriveStep(inst.Status, inst.RONumber)
	return inst
}
