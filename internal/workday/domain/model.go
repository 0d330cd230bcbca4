package domain

import (
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	taskdomain "github.com/cocinamqb/stockdiario/internal/task/domain"
)

// WorkingSet is the explicit snapshot of everything a working day owns.
// Callers load it for one date instead of reaching into shared state.
type WorkingSet struct {
	Date      string                       `json:"date"`
	Initial   []countdomain.Response       `json:"initial"`
	Final     []countdomain.Response       `json:"final"`
	Shortages []shortagedomain.Response    `json:"shortages"`
	Pendings  []taskdomain.PendingResponse `json:"pendings"`
	Tasks     []taskdomain.TaskResponse    `json:"tasks"`
}

func (w WorkingSet) Empty() bool {
	return len(w.Initial) == 0 && len(w.Final) == 0
}

// Step names the phase a finalize run is in. Runs always move forward
// through the sequence and land back on idle.
type Step string

const (
	StepIdle            Step = "idle"
	StepCompleting      Step = "completing"
	StepDetecting       Step = "detecting"
	StepArchiving       Step = "archiving"
	StepCarryingForward Step = "carrying_forward"
	StepClearing        Step = "clearing"
)

// Final-count completion and carry-forward markers, kept in the original
// operator wording.
const (
	NoteRetainedFromInitial = "No editado - se mantiene cantidad inicial"
	NoteUpdatedFromFinal    = "Actualizado desde conteo final"
)
