package models

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Owns is the single ownership rule for tasks.
func Owns(user *User, task *Task) bool {
	return user != nil && task != nil && user.ID != "" && task.UserID == user.ID
}

// TaskPatch lists the columns an update writes. A nil pointer leaves the
// column alone. Description is written when SetDescription is true, as NULL
// if Description is nil.
type TaskPatch struct {
	Title          *string
	Description    *string
	SetDescription bool
	IsCompleted    *bool
}

// Empty reports whether the patch would not change anything.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && p.IsCompleted == nil
}

// Apply copies the patched fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.SetDescription {
		t.Description = p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
}
