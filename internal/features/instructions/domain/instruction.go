package domain

import "time"

// Status is the core-system state of a shipping instruction. It only moves
// forward; the portal never rewinds it.
type Status string

const (
	// StatusCreated indicates the instruction was initialized and has no documents yet.
	StatusCreated Status = "created"
	// StatusDocumentsUploaded indicates at least one shipping document was uploaded.
	StatusDocumentsUploaded Status = "documents_uploaded"
	// StatusAIProcessed indicates the document-extraction service produced suggestions.
	StatusAIProcessed Status = "ai_processed"
	// StatusFormInProgress indicates the importer started editing the form.
	StatusFormInProgress Status = "form_in_progress"
	// StatusFinalized indicates the form was accepted and locked.
	StatusFinalized Status = "finalized"
	// StatusROGenerated indicates a routing order number was issued.
	StatusROGenerated Status = "ro_generated"
	// StatusSentToForwarder indicates the forwarder was notified.
	StatusSentToForwarder Status = "sent_to_forwarder"
	// StatusForwarderConfirmed is terminal: the forwarder acknowledged with a reference.
	StatusForwarderConfirmed Status = "forwarder_confirmed"
)

// Step is the wizard step the portal shows for an instruction.
type Step string

const (
	StepSelect    Step = "select"
	StepDocuments Step = "documents"
	StepForm      Step = "form"
	StepRO        Step = "ro"
)

var stepOrder = map[Step]int{
	StepSelect:    0,
	StepDocuments: 1,
	StepForm:      2,
	StepRO:        3,
}

// Index returns the position of the step in the wizard. Unknown steps sort first.
func (s Step) Index() int {
	return stepOrder[s]
}

// DeriveStep projects the instruction state onto the wizard. The projection
// is deterministic: an issued RO number always wins, then the status decides.
func DeriveStep(status Status, roNumber string) Step {
	if roNumber != "" {
		return StepRO
	}

	switch status {
	case StatusFinalized, StatusROGenerated, StatusSentToForwarder, StatusForwarderConfirmed:
		return StepRO
	case StatusDocumentsUploaded, StatusAIProcessed, StatusFormInProgress:
		return StepForm
	default:
		return StepDocuments
	}
}

// CanNavigate reports whether the step indicator allows moving from the
// current step to the target. Only completed or current steps are enterable;
// pending ones are not. This is a UX guard, the core system re-validates.
func CanNavigate(current, target Step) bool {
	return target.Index() <= current.Index()
}

// Instruction is the shipping instruction linked 1:1 to an approved quote
// submission.
type Instruction struct {
	// ID is the core-system identifier.
	ID int64 `json:"id"`
	// QuoteSubmissionID is the approved submission this instruction was initialized from.
	QuoteSubmissionID int64 `json:"lead_cotizacion_id"`
	// Status is the core-system pipeline state.
	Status Status `json:"status"`
	// Step is the derived wizard step, filled in by the service.
	Step Step `json:"step"`
	// RONumber is the routing order number, once generated.
	RONumber string `json:"ro_number,omitempty"`
	// ForwarderReference is the forwarder's acknowledgment reference.
	ForwarderReference string `json:"forwarder_reference,omitempty"`
	// AIExtractedData is the raw suggestion bag from the extraction service.
	AIExtractedData map[string]any `json:"ai_extracted_data,omitempty"`
	// CreatedAt is when the instruction was initialized.
	CreatedAt time.Time `json:"created_at"`
}

// CanGenerateRO reports whether a routing order may be requested. Once a
// number exists the operation is disabled for good, whatever the status
// does afterwards.
func (i *Instruction) CanGenerateRO() bool {
	return i.RONumber == "" && i.Status == StatusFinalized
}

// CanNotifyForwarder reports whether the forwarder notification is enabled.
func (i *Instruction) CanNotifyForwarder() bool {
	return i.Status == StatusROGenerated
}

// CanConfirmForwarder reports whether the forwarder reference may be saved.
func (i *Instruction) CanConfirmForwarder() bool {
	return i.Status == StatusSentToForwarder
}

// DocumentType classifies an uploaded shipping document.
type DocumentType string

const (
	DocCommercialInvoice   DocumentType = "commercial_invoice"
	DocPackingList         DocumentType = "packing_list"
	DocBillOfLading        DocumentType = "bill_of_lading"
	DocCertificateOfOrigin DocumentType = "certificate_of_origin"
	DocInsurancePolicy     DocumentType = "insurance_policy"
	DocCustomsDeclaration  DocumentType = "customs_declaration"
	DocTechnicalSheet      DocumentType = "technical_sheet"
	DocOther               DocumentType = "other"
)

var validDocumentTypes = map[DocumentType]bool{
	DocCommercialInvoice:   true,
	DocPackingList:         true,
	DocBillOfLading:        true,
	DocCertificateOfOrigin: true,
	DocInsurancePolicy:     true,
	DocCustomsDeclaration:  true,
	DocTechnicalSheet:      true,
	DocOther:               true,
}

// IsValid reports whether the document type is one of the accepted values.
func (d DocumentType) IsValid() bool {
	return validDocumentTypes[d]
}

// Document is an uploaded shipping document as recorded by the core system.
type Document struct {
	ID         int64        `json:"id"`
	Type       DocumentType `json:"document_type"`
	FileName   string       `json:"file_name"`
	SizeBytes  int64        `json:"size_bytes"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// DocumentUpload is a document on its way to the core system.
type DocumentUpload struct {
	Type     DocumentType
	FileName string
	Content  []byte
}
