package adapter

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/instructions/domain"
)

// CoreInstructionsAdapter implements the InstructionProvider port against
// the core shipping-instructions API.
type CoreInstructionsAdapter struct {
	client *session.Client
}

// NewCoreInstructionsAdapter creates a new CoreInstructionsAdapter.
func NewCoreInstructionsAdapter(client *session.Client) *CoreInstructionsAdapter {
	return &CoreInstructionsAdapter{
		client: client,
	}
}

// formEnvelope is the wire shape of the form endpoint: the editable record
// alongside the raw extraction-service bag.
type formEnvelope struct {
	domain.Form
	AIExtractedData map[string]any `json:"ai_extracted_data"`
}

// Init initializes (or returns the existing) instruction for a submission.
func (a *CoreInstructionsAdapter) Init(ctx context.Context, sess *session.Session, quoteSubmissionID int64) (*domain.Instruction, error) {
	body := map[string]int64{"lead_cotizacion_id": quoteSubmissionID}

	var inst domain.Instruction
	err := a.client.DoJSON(ctx, sess, http.MethodPost, "/api/sales/shipping-instructions/init/", body, &inst)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Get fetches one instruction by ID.
func (a *CoreInstructionsAdapter) Get(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	var inst domain.Instruction
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodGet, path, nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// GetForm loads the editable form and the AI suggestion bag.
func (a *CoreInstructionsAdapter) GetForm(ctx context.Context, sess *session.Session, id int64) (*domain.Form, map[string]any, error) {
	var envelope formEnvelope
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/form/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, nil, err
	}
	return &envelope.Form, envelope.AIExtractedData, nil
}

// SaveForm sends a partial update. Only the keys present in the patch are
// sent, so untouched fields keep their core-side values.
func (a *CoreInstructionsAdapter) SaveForm(ctx context.Context, sess *session.Session, id int64, patch map[string]any) (*domain.Form, error) {
	var form domain.Form
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/form/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPatch, path, patch, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// UploadDocument sends one shipping document as multipart/form-data.
func (a *CoreInstructionsAdapter) UploadDocument(ctx context.Context, sess *session.Session, id int64, doc domain.DocumentUpload) (*domain.Document, error) {
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/documents/", id)

	var uploaded domain.Document
	err := a.client.DoMultipart(ctx, sess, path, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", doc.FileName)
		if err != nil {
			return err
		}
		if _, err := part.Write(doc.Content); err != nil {
			return err
		}
		return w.WriteField("document_type", string(doc.Type))
	}, &uploaded)
	if err != nil {
		return nil, err
	}
	return &uploaded, nil
}

// Finalize locks the form on the core side.
func (a *CoreInstructionsAdapter) Finalize(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	var inst domain.Instruction
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/finalize/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, path, nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// GenerateRO requests a routing order number.
func (a *CoreInstructionsAdapter) GenerateRO(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	var inst domain.Instruction
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/generate-ro/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, path, nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// NotifyForwarder asks the core system to notify the freight forwarder.
func (a *CoreInstructionsAdapter) NotifyForwarder(ctx context.Context, sess *session.Session, id int64) (*domain.Instruction, error) {
	var inst domain.Instruction
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/notify-forwarder/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, path, nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// SaveForwarderReference records the forwarder's acknowledgment reference.
func (a *CoreInstructionsAdapter) SaveForwarderReference(ctx context.Context, sess *session.Session, id int64, reference string) (*domain.Instruction, error) {
	body := map[string]string{"forwarder_reference": reference}

	var inst domain.Instruction
	path := fmt.Sprintf("/api/sales/shipping-instructions/%d/forwarder-reference/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPut, path, body, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}
