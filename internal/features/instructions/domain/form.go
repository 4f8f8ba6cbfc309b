package domain

import (
	"encoding/json"

	"comex-portal/internal/core/validation"
)

// Form is the flat editable shipping-instruction record. Field names mirror
// the core API payload; validation messages are keyed by the same names.
type Form struct {
	ShipperName    string `json:"shipper_name" validate:"required"`
	ShipperAddress string `json:"shipper_address" validate:"required"`
	ShipperCountry string `json:"shipper_country" validate:"required"`

	ConsigneeName    string `json:"consignee_name" validate:"required"`
	ConsigneeAddress string `json:"consignee_address" validate:"required"`
	ConsigneeRUC     string `json:"consignee_ruc" validate:"required,ruc"`
	NotifyParty      string `json:"notify_party"`

	CargoDescription string  `json:"cargo_description" validate:"required"`
	HSCode           string  `json:"hs_code"`
	GrossWeightKg    float64 `json:"gross_weight_kg" validate:"omitempty,gt=0"`
	POL              string  `json:"pol" validate:"required"`
	POD              string  `json:"pod" validate:"required"`
	Incoterm         string  `json:"incoterm" validate:"omitempty,oneof=EXW FOB CFR CIF DAP DDP"`

	SpecialInstructions string `json:"special_instructions"`
}

// Validate returns per-field Spanish messages, or nil when the form is
// complete enough to finalize.
func (f Form) Validate() map[string]string {
	return validation.Struct(f)
}

// MergeAISuggestions returns a copy of the form with empty string fields
// filled from the extraction-service suggestion bag. Fields the importer
// already edited are never overwritten.
func (f Form) MergeAISuggestions(bag map[string]any) Form {
	if len(bag) == 0 {
		return f
	}

	// Round-trip through JSON so bag keys line up with the wire names.
	raw, err := json.Marshal(f)
	if err != nil {
		return f
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return f
	}

	for key, suggestion := range bag {
		current, ok := fields[key]
		if !ok {
			continue
		}
		if s, isString := current.(string); isString && s == "" {
			if suggested, isString := suggestion.(string); isString && suggested != "" {
				fields[key] = suggested
			}
		}
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return f
	}

	var out Form
	if err := json.Unmarshal(merged, &out); err != nil {
		return f
	}
	return out
}

// FormView is what the form endpoint returns: the editable record with AI
// suggestions merged in, plus the raw bag so the frontend can highlight
// which values were suggested.
type FormView struct {
	Form          Form           `json:"form"`
	AISuggestions map[string]any `json:"ai_extracted_data,omitempty"`
}
