package domain

import (
	"errors"
	"math"
	"time"
)

// MilestoneStatus is the server-computed state of one milestone.
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// MilestoneLabels is the fixed 14-step vocabulary of an import operation,
// in milestone order. The core system assigns the order; this list is the
// reference the portal displays against.
var MilestoneLabels = []string{
	"Confirmación de booking",
	"Recolección de carga",
	"Carga en puerto de origen",
	"Embarque confirmado",
	"Zarpe del buque",
	"En tránsito internacional",
	"Transbordo",
	"Arribo a puerto de destino",
	"Descarga en puerto",
	"Ingreso a depósito temporal",
	"Declaración aduanera presentada",
	"Aforo y liquidación",
	"Levante autorizado",
	"Entrega final",
}

// Milestone is one step of a cargo's timeline as computed by the core
// system. The portal never mutates milestones.
type Milestone struct {
	// Order is the server-defined position in the timeline.
	Order int `json:"milestone_order"`
	// Label is the display name of the step.
	Label string `json:"label"`
	// Status is pending, in_progress or completed.
	Status MilestoneStatus `json:"status"`
	// PlannedDate is the scheduled date, if any.
	PlannedDate *time.Time `json:"planned_date,omitempty"`
	// ActualDate is when the step actually happened, if it has.
	ActualDate *time.Time `json:"actual_date,omitempty"`
}

// Progress is the summary the list view shows per cargo.
type Progress struct {
	// Completed is the number of completed milestones.
	Completed int `json:"completed"`
	// Total is the total number of milestones.
	Total int `json:"total"`
	// CurrentLabel is the label of the in-progress milestone, if any.
	CurrentLabel string `json:"current_label,omitempty"`
	// Percent is the derived completion percentage.
	Percent int `json:"percent"`
}

// Cargo is one tracked shipment tied to a routing order.
type Cargo struct {
	// ID is the core-system identifier.
	ID int64 `json:"id"`
	// RONumber is the routing order this cargo belongs to.
	RONumber string `json:"ro_number"`
	// Vessel is the carrying vessel name, when known.
	Vessel string `json:"vessel,omitempty"`
	// POL and POD are the ports of loading and discharge.
	POL string `json:"pol"`
	POD string `json:"pod"`
	// ETA is the estimated arrival, when known.
	ETA *time.Time `json:"eta,omitempty"`
	// Progress is the milestone summary, filled by the service.
	Progress Progress `json:"milestone_progress"`
	// Milestones is the full ordered timeline. Empty in list responses.
	Milestones []Milestone `json:"milestones,omitempty"`
}

// ErrTimelineInconsistent indicates the milestone array violates the
// ordering rules. The projection still renders; server data wins.
var ErrTimelineInconsistent = errors.New("milestone timeline is inconsistent")

// ProgressPercent returns the rounded completion percentage. A cargo
// without milestones reads as zero percent rather than dividing by zero.
func ProgressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Summarize derives the progress summary from the milestone timeline.
func Summarize(milestones []Milestone) Progress {
	p := Progress{Total: len(milestones)}
	for _, m := range milestones {
		switch m.Status {
		case MilestoneCompleted:
			p.Completed++
		case MilestoneInProgress:
			p.CurrentLabel = m.Label
		}
	}
	p.Percent = ProgressPercent(p.Completed, p.Total)
	return p
}

// ValidateTimeline checks the ordering rules: at most one in_progress
// milestone, completed ones strictly before it in milestone order, pending
// ones strictly after.
func ValidateTimeline(milestones []Milestone) error {
	inProgressOrder := -1
	for _, m := range milestones {
		if m.Status == MilestoneInProgress {
			if inProgressOrder >= 0 {
				return ErrTimelineInconsistent
			}
			inProgressOrder = m.Order
		}
	}

	if inProgressOrder < 0 {
		// No current step: only all-completed-then-all-pending is valid.
		lastCompleted, firstPending := -1, math.MaxInt
		for _, m := range milestones {
			switch m.Status {
			case MilestoneCompleted:
				if m.Order > lastCompleted {
					lastCompleted = m.Order
				}
			case MilestonePending:
				if m.Order < firstPending {
					firstPending = m.Order
				}
			}
		}
		if lastCompleted >= firstPending {
			return ErrTimelineInconsistent
		}
		return nil
	}

	for _, m := range milestones {
		switch m.Status {
		case MilestoneCompleted:
			if m.Order >= inProgressOrder {
				return ErrTimelineInconsistent
			}
		case MilestonePending:
			if m.Order <= inProgressOrder {
				return ErrTimelineInconsistent
			}
		}
	}
	return nil
}
