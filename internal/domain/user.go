package domain

import "time"

// User is an authenticated operator. Auth itself is out of scope; users are
// identified by an API token and carry an active project selection.
type User struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	TechnicianID     *string `json:"technician_id,omitempty"`
	CurrentProjectID *string `json:"current_project_id,omitempty"`
}

// Project groups users around one tenant dataset.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Permission is the per-project permission triple. It is resolved once per
// request and threaded through the call chain as an explicit context value,
// never read from globals.
type Permission struct {
	CanView bool `json:"can_view"`
	CanEdit bool `json:"can_edit"`
	IsAdmin bool `json:"is_admin"`
}
