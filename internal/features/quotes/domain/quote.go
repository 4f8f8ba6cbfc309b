package domain

import (
	"time"

	"comex-portal/internal/core/validation"
)

// Status is the core-system vocabulary for a quote submission.
type Status string

const (
	StatusRecibida            Status = "recibida"
	StatusValidacionPendiente Status = "validacion_pendiente"
	StatusProcesandoCostos    Status = "procesando_costos"
	StatusEnEsperaFF          Status = "en_espera_ff"
	StatusCotizacionGenerada  Status = "cotizacion_generada"
	StatusCotizacionEnviada   Status = "cotizacion_enviada"
	StatusAprobada            Status = "aprobada"
	StatusROGenerado          Status = "ro_generado"
	StatusEnTransito          Status = "en_transito"
	StatusCompletada          Status = "completada"
	StatusCancelada           Status = "cancelada"
	StatusRechazada           Status = "rechazada"
)

// DisplayStatus is the collapsed vocabulary the portal renders. Every view
// consumes this one mapping; the core vocabulary never reaches the frontend
// unmapped.
type DisplayStatus string

const (
	DisplayPendiente  DisplayStatus = "pendiente"
	DisplayEnEsperaFF DisplayStatus = "en_espera_ff"
	DisplayCotizado   DisplayStatus = "cotizado"
	DisplayAprobada   DisplayStatus = "aprobada"
	DisplayROGenerado DisplayStatus = "ro_generado"
	DisplayRechazada  DisplayStatus = "rechazada"
)

var displayTable = map[Status]DisplayStatus{
	StatusRecibida:            DisplayPendiente,
	StatusValidacionPendiente: DisplayPendiente,
	StatusProcesandoCostos:    DisplayPendiente,
	StatusEnEsperaFF:          DisplayEnEsperaFF,
	StatusCotizacionGenerada:  DisplayCotizado,
	StatusCotizacionEnviada:   DisplayCotizado,
	StatusAprobada:            DisplayAprobada,
	StatusROGenerado:          DisplayROGenerado,
	StatusEnTransito:          DisplayROGenerado,
	StatusCompletada:          DisplayROGenerado,
	StatusCancelada:           DisplayRechazada,
	StatusRechazada:           DisplayRechazada,
}

// Display collapses the core status into the portal vocabulary. Unknown
// statuses display as pendiente.
func (s Status) Display() DisplayStatus {
	if d, ok := displayTable[s]; ok {
		return d
	}
	return DisplayPendiente
}

// CanGenerateInstruction reports whether a shipping instruction may be
// initialized from this submission. Only approved quotes qualify.
func (s Status) CanGenerateInstruction() bool {
	return s.Display() == DisplayAprobada
}

// AwaitsClientDecision reports whether the importer may still approve or
// reject the quote.
func (s Status) AwaitsClientDecision() bool {
	return s.Display() == DisplayCotizado
}

// TransportType is the requested freight mode.
type TransportType string

const (
	TransportOceanFCL TransportType = "ocean_fcl"
	TransportOceanLCL TransportType = "ocean_lcl"
	TransportAir      TransportType = "air"
	TransportRoad     TransportType = "road"
)

// Submission represents a quote submission owned by one importer lead. The
// core system is the source of truth; the portal never mutates it outside
// the approve/reject endpoints.
type Submission struct {
	// ID is the core-system identifier.
	ID int64 `json:"id"`
	// SubmissionNumber is the human-readable reference (e.g., COT-2025-0142).
	SubmissionNumber string `json:"submission_number"`
	// LeadID is the owning importer lead.
	LeadID int64 `json:"lead_id"`
	// Status is the raw core-system status.
	Status Status `json:"status"`
	// Display is the collapsed portal status, filled in by the service.
	Display DisplayStatus `json:"display_status"`
	// TransportType is the requested freight mode.
	TransportType TransportType `json:"transport_type"`
	// POL is the port of loading.
	POL string `json:"pol"`
	// POD is the port of discharge.
	POD string `json:"pod"`
	// Incoterm is the agreed valuation basis (FOB, CIF, ...).
	Incoterm string `json:"incoterm"`
	// CargoDescription describes the goods.
	CargoDescription string `json:"cargo_description"`
	// TotalWeightKg is the aggregate cargo weight.
	TotalWeightKg float64 `json:"total_weight_kg"`
	// TotalContainers is the aggregate container count (FCL only).
	TotalContainers int `json:"total_containers"`
	// TotalCBM is the aggregate cargo volume (LCL/air).
	TotalCBM float64 `json:"total_cbm"`
	// RONumber is set once a routing order exists for this submission.
	RONumber string `json:"ro_number,omitempty"`
	// CreatedAt is when the submission was received.
	CreatedAt time.Time `json:"created_at"`
}

// ContainerRow is one container line of an FCL quote request. WeightKg is
// the weight per container.
type ContainerRow struct {
	Type     string  `json:"type" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0"`
}

// PackageRow is one package line of an LCL/air quote request. Dimensions are
// per package in Unit; WeightKg is the weight per package.
type PackageRow struct {
	Length   float64 `json:"length" validate:"required,gt=0"`
	Width    float64 `json:"width" validate:"required,gt=0"`
	Height   float64 `json:"height" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required,oneof=m cm mm in"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0"`
}

// Request is a new quote request as submitted by the importer.
type Request struct {
	TransportType    TransportType  `json:"transport_type" validate:"required,oneof=ocean_fcl ocean_lcl air road"`
	CompanyName      string         `json:"company_name" validate:"required"`
	RUC              string         `json:"ruc" validate:"required,ruc"`
	ContactEmail     string         `json:"contact_email" validate:"required,email"`
	POL              string         `json:"pol" validate:"required"`
	POD              string         `json:"pod" validate:"required"`
	Incoterm         string         `json:"incoterm" validate:"omitempty,oneof=EXW FOB CFR CIF DAP DDP"`
	CargoDescription string         `json:"cargo_description" validate:"required"`
	Containers       []ContainerRow `json:"containers" validate:"omitempty,dive"`
	Packages         []PackageRow   `json:"packages" validate:"omitempty,dive"`
}

// Validate returns per-field Spanish messages, or nil when the request is
// valid. FCL requests must carry at least one container row; LCL and air
// requests at least one package row.
func (r Request) Validate() map[string]string {
	fields := validation.Struct(r)

	switch r.TransportType {
	case TransportOceanFCL:
		if len(r.Containers) == 0 {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields["containers"] = "Agregue al menos un contenedor"
		}
	case TransportOceanLCL, TransportAir:
		if len(r.Packages) == 0 {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields["packages"] = "Agregue al menos un bulto"
		}
	}

	return fields
}

// TotalWeightKg aggregates the cargo weight across container or package rows.
func (r Request) TotalWeightKg() float64 {
	var total float64
	for _, row := range r.Containers {
		total += float64(row.Quantity) * row.WeightKg
	}
	for _, row := range r.Packages {
		total += float64(row.Quantity) * row.WeightKg
	}
	return total
}

// TotalContainers aggregates the container count across rows.
func (r Request) TotalContainers() int {
	total := 0
	for _, row := range r.Containers {
		total += row.Quantity
	}
	return total
}

// TotalCBM aggregates the package volume in cubic meters.
func (r Request) TotalCBM() (float64, error) {
	var total float64
	for _, row := range r.Packages {
		v, err := CBM(row.Length, row.Width, row.Height, row.Quantity, row.Unit)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
