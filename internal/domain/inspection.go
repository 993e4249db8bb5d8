package domain

import "time"

// InspectionRecord is one inspection visit to one building by one inspector
// on one date. The (Date, BuildingID) pair is unique server-wide; a second
// import for the same pair is rejected, not merged.
type InspectionRecord struct {
	ID           int64     `json:"id"`
	InspectorID  string    `json:"inspector_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Notes        string    `json:"notes"`
	BuildingID   int64     `json:"building_id"`
	CreatedAt    time.Time `json:"created_at"`
	UploadedFile string    `json:"uploaded_file"` // blob path of the raw snapshot evidence
}

// FaultInspection is a fault observed (or explicitly marked absent or
// resolved) during one inspection visit. FaultID links to the catalog when
// the fault was picked from it; free-form findings carry only ShortName and
// Description.
type FaultInspection struct {
	ID                int64   `json:"id"`
	FaultID           *int64  `json:"fault_id,omitempty"`
	ShortName         string  `json:"short_name"`
	Description       string  `json:"description"`
	InspectionID      int64   `json:"inspection_id"`
	Notes             string  `json:"notes"`
	ResponsiblePerson string  `json:"responsible_person"`
	FixDueDate        *string `json:"fix_due_date,omitempty"` // YYYY-MM-DD
	Resolved          bool    `json:"resolved"`
	Present           bool    `json:"present"`
}

// FaultPhoto is a binary attachment belonging to exactly one FaultInspection.
// The bytes live in the blob store; PhotoPath is the stored location.
type FaultPhoto struct {
	ID                int64     `json:"id"`
	FaultInspectionID int64     `json:"fault_inspection_id"`
	PhotoPath         string    `json:"photo_path"`
	UploadedAt        time.Time `json:"uploaded_at"`
}
