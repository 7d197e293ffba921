package api

import (
	"encoding/json"
	"time"
)

// Session is the client-side authentication state. It is created by Register
// and Login and passed explicitly to every call that needs a bearer token.
type Session struct {
	Token string
	User  *User
}

// LoggedIn reports whether s carries a token.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch is a partial task update. Nil fields are not sent; set
// ClearDescription to send an explicit null description.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	IsCompleted      *bool
}

func (p TaskPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 3)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	switch {
	case p.ClearDescription:
		m["description"] = nil
	case p.Description != nil:
		m["description"] = *p.Description
	}
	if p.IsCompleted != nil {
		m["is_completed"] = *p.IsCompleted
	}
	return json.Marshal(m)
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type authResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

type userResponse struct {
	User *User `json:"user"`
}

type taskResponse struct {
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}

type tasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
