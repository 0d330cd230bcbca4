package domain

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type DayRecord struct {
	ID               int64          `json:"id" gorm:"primaryKey"`
	DateKey          string         `json:"date" gorm:"column:date_key;type:text;not null;uniqueIndex:idx_day_records_date"`
	RunID            string         `json:"run_id" gorm:"type:text;not null;default:''"`
	InitialSnapshot  datatypes.JSON `json:"initial_snapshot"`
	FinalSnapshot    datatypes.JSON `json:"final_snapshot"`
	ShortageSnapshot datatypes.JSON `json:"shortage_snapshot"`
	PendingSnapshot  datatypes.JSON `json:"pending_snapshot"`
	TaskSnapshot     datatypes.JSON `json:"task_snapshot"`
	Summary          string         `json:"summary" gorm:"type:text;not null;default:''"`
	FinalizedAt      time.Time      `json:"finalized_at"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DayRecord) TableName() string { return "day_records" }

// PendingSnapshot is the tagged form of an archived pending note.
type PendingSnapshot struct {
	Text string `json:"text"`
}

// TaskSnapshot is the tagged form of an archived task.
type TaskSnapshot struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Done        bool   `json:"done"`
}

// NormalizePendings reads a pending snapshot written either by this service
// (objects) or by the legacy app (bare strings) and returns tagged structs.
func NormalizePendings(raw datatypes.JSON) []PendingSnapshot {
	if len(raw) == 0 {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}
	out := make([]PendingSnapshot, 0, len(elements))
	for _, element := range elements {
		var text string
		if err := json.Unmarshal(element, &text); err == nil {
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, PendingSnapshot{Text: text})
			}
			continue
		}
		var tagged PendingSnapshot
		if err := json.Unmarshal(element, &tagged); err == nil && strings.TrimSpace(tagged.Text) != "" {
			tagged.Text = strings.TrimSpace(tagged.Text)
			out = append(out, tagged)
		}
	}
	return out
}

// NormalizeTasks reads a task snapshot in either the legacy object shape
// (Spanish field names) or the tagged shape.
func NormalizeTasks(raw datatypes.JSON) []TaskSnapshot {
	if len(raw) == 0 {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}
	out := make([]TaskSnapshot, 0, len(elements))
	for _, element := range elements {
		var text string
		if err := json.Unmarshal(element, &text); err == nil {
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, TaskSnapshot{Description: text})
			}
			continue
		}
		var legacy struct {
			Description string `json:"description"`
			Descripcion string `json:"descripcion"`
			Texto       string `json:"texto"`
			DueDate     string `json:"due_date"`
			Assignee    string `json:"assignee"`
			Done        bool   `json:"done"`
			Completada  bool   `json:"completada"`
		}
		if err := json.Unmarshal(element, &legacy); err != nil {
			continue
		}
		description := strings.TrimSpace(legacy.Description)
		if description == "" {
			description = strings.TrimSpace(legacy.Descripcion)
		}
		if description == "" {
			description = strings.TrimSpace(legacy.Texto)
		}
		if description == "" {
			continue
		}
		out = append(out, TaskSnapshot{
			Description: description,
			DueDate:     legacy.DueDate,
			Assignee:    legacy.Assignee,
			Done:        legacy.Done || legacy.Completada,
		})
	}
	return out
}
