package domain

import "time"

// Pending is a free-form note for the next shift.
type Pending struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Pending) TableName() string { return "pendings" }

type Task struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	DueDate     string    `json:"due_date" gorm:"type:text;not null;default:''"`
	Assignee    string    `json:"assignee" gorm:"type:text;not null;default:''"`
	Done        bool      `json:"done" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Task) TableName() string { return "tasks" }
