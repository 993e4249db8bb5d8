package domain

import "time"

// Company is the tenant root. Every owner, building and extinguisher is
// reachable from exactly one company; company IDs are server-assigned and
// never reused across snapshots.
type Company struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	Zipcode string  `json:"zipcode"`
	ICO     string  `json:"ico"`
	DIC     string  `json:"dic"`
	LogoPath *string `json:"logo_path,omitempty"`
}

// BuildingOwner belongs to exactly one company. ManagedBy is optional at
// creation and backfilled later.
type BuildingOwner struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zipcode   string `json:"zipcode"`
	ICO       string `json:"ico"`
	DIC       string `json:"dic"`
	ManagedBy *int64 `json:"managed_by,omitempty"`
}

// BuildingManager is a shared pool, not tenant-scoped.
type BuildingManager struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Phone2  *string `json:"phone2,omitempty"`
	Email   string  `json:"email"`
}

// Building belongs to one company and one owner, optionally one manager.
type Building struct {
	ID                     int64      `json:"id"`
	BuildingID             string     `json:"building_id"`
	Address                string     `json:"address"`
	City                   string     `json:"city"`
	Zipcode                string     `json:"zipcode"`
	Note                   *string    `json:"note,omitempty"`
	CompanyID              int64      `json:"company_id"`
	OwnerID                int64      `json:"owner_id"`
	ManagerID              *int64     `json:"manager_id,omitempty"`
	LastInspectionDate     *time.Time `json:"last_inspection_date,omitempty"`
	InspectionIntervalDays *int       `json:"inspection_interval_days,omitempty"`
}

// Fault is a catalog entry describing a defect type.
type Fault struct {
	ID                 int64  `json:"id"`
	ShortName          string `json:"short_name"`
	Description        string `json:"description"`
	DefaultFixTimeDays *int   `json:"default_fix_time_days,omitempty"`
}

// PossibleFault records that a catalog fault is applicable to a building.
// This is distinct from an actual observed occurrence (FaultInspection).
type PossibleFault struct {
	ID         int64 `json:"id"`
	FaultID    int64 `json:"fault_id"`
	BuildingID int64 `json:"building_id"`
}
