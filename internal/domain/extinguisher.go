package domain

import "time"

// ActionType enumerates the service actions recorded for an extinguisher.
type ActionType string

const (
	ActionInspection       ActionType = "inspection"
	ActionElimination      ActionType = "elimination"
	ActionRefill           ActionType = "refill"
	ActionPeriodicTest     ActionType = "periodic_test"
	ActionMaintenance      ActionType = "maintenance"
	ActionHoseReplacement  ActionType = "hose_replacement"
	ActionValveReplacement ActionType = "valve_replacement"
	ActionRefillPressurize ActionType = "refill_and_pressurize"
	ActionSafetyPin        ActionType = "safety_pin"
	ActionOther            ActionType = "other"
)

// ActionTypes lists every valid action type.
var ActionTypes = []ActionType{
	ActionInspection,
	ActionElimination,
	ActionRefill,
	ActionPeriodicTest,
	ActionMaintenance,
	ActionHoseReplacement,
	ActionValveReplacement,
	ActionRefillPressurize,
	ActionSafetyPin,
	ActionOther,
}

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	for _, known := range ActionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Extinguisher kinds with a shortened periodic-test cycle.
const (
	KindWater = "water"
	KindFoam  = "foam"
)

// Extinguisher is a managed fire extinguisher. SerialNumber is the natural
// key used to deduplicate assets across snapshot imports. NextInspection,
// NextPeriodicTest and Eliminated are derived exclusively from the service
// action log and must not be set directly.
type Extinguisher struct {
	ID               int64      `json:"id"`
	Kind             string     `json:"kind"`
	Size             string     `json:"size"`
	Power            string     `json:"power"`
	Manufacturer     string     `json:"manufacturer"`
	SerialNumber     string     `json:"serial_number"`
	Eliminated       bool       `json:"eliminated"`
	ManufacturedYear int        `json:"manufactured_year"`
	ManagedBy        int64      `json:"managed_by"`
	NextInspection   *time.Time `json:"next_inspection,omitempty"`
	NextPeriodicTest *time.Time `json:"next_periodic_test,omitempty"`
}

// Placement is one append-only "extinguisher located at building" fact.
// The current placement is derived, never flagged: latest CreatedAt wins,
// ties broken by highest ID.
type Placement struct {
	ID             int64     `json:"id"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	ExtinguisherID int64     `json:"extinguisher_id"`
	BuildingID     int64     `json:"building_id"`
}

// ServiceAction is one append-only event in an extinguisher's service log.
// The log is the single source of truth for the derived schedule fields.
type ServiceAction struct {
	ID             int64      `json:"id"`
	ActionType     ActionType `json:"action_type"`
	Description    string     `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	ExtinguisherID int64      `json:"extinguisher_id"`
}
