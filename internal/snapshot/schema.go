package snapshot

import (
	"fmt"
	"strings"
)

// SchemaVersion is written into the database_version table of every exported
// snapshot. Readers check it before trusting positional column order.
const SchemaVersion = 1

// Snapshot table names. The field devices and the server share this schema;
// column order is part of the contract because rows are read positionally.
const (
	TableVersion         = "database_version"
	TableCompany         = "company"
	TableOwner           = "building_owner"
	TableManager         = "building_manager"
	TableBuilding        = "building"
	TableFault           = "fault"
	TablePossibleFault   = "possible_fault"
	TableExtinguisher    = "firedistinguisher"
	TablePlacement       = "firedistinguisher_placement"
	TableServiceAction   = "firedistinguisher_service_action"
	TableInspection      = "inspection_record"
	TableFaultInspection = "fault_inspection"
	TableFaultPhoto      = "fault_photo"
	TableFiles           = "files"
)

// Column is one snapshot column with its storage affinity.
type Column struct {
	Name string
	Type string
}

// TableSpec describes one snapshot table. Columns are listed in the exact
// order rows are written and read; changing the order is a schema version
// bump, not an edit.
type TableSpec struct {
	Name    string
	Columns []Column
}

// CreateSQL returns the CREATE TABLE statement for the table.
func (t TableSpec) CreateSQL() string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = c.Name + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(defs, ", "))
}

// InsertSQL returns the positional INSERT statement for the table.
func (t TableSpec) InsertSQL() string {
	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// SelectSQL returns the positional SELECT statement for the table, ordered
// by id so readers see rows in a stable insertion order.
func (t TableSpec) SelectSQL() string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(names, ", "), t.Name, t.Columns[0].Name)
}

const (
	typeInteger = "INTEGER"
	typeText    = "TEXT"
	typeBlob    = "BLOB"
	typeID      = "INTEGER PRIMARY KEY"
)

// Tables lists every snapshot table in creation order.
var Tables = []TableSpec{
	{Name: TableVersion, Columns: []Column{
		{"version", typeInteger},
	}},
	{Name: TableCompany, Columns: []Column{
		{"id", typeID}, {"name", typeText}, {"address", typeText}, {"city", typeText},
		{"zipcode", typeText}, {"ico", typeText}, {"dic", typeText}, {"logo", typeBlob},
	}},
	{Name: TableOwner, Columns: []Column{
		{"id", typeID}, {"name", typeText}, {"address", typeText}, {"city", typeText},
		{"zipcode", typeText}, {"ico", typeText}, {"dic", typeText}, {"managed_by", typeInteger},
	}},
	{Name: TableManager, Columns: []Column{
		{"id", typeID}, {"name", typeText}, {"address", typeText}, {"phone", typeText},
		{"phone2", typeText}, {"email", typeText},
	}},
	{Name: TableBuilding, Columns: []Column{
		{"id", typeID}, {"building_id", typeText}, {"address", typeText}, {"city", typeText},
		{"zipcode", typeText}, {"note", typeText}, {"company", typeInteger}, {"owner", typeInteger},
		{"manager", typeInteger}, {"last_inspection_date", typeText}, {"inspection_interval_days", typeInteger},
	}},
	{Name: TableFault, Columns: []Column{
		{"id", typeID}, {"short_name", typeText}, {"description", typeText}, {"default_fix_time_days", typeInteger},
	}},
	{Name: TablePossibleFault, Columns: []Column{
		{"id", typeID}, {"fault", typeInteger}, {"building", typeInteger},
	}},
	{Name: TableExtinguisher, Columns: []Column{
		{"id", typeID}, {"kind", typeText}, {"size", typeText}, {"power", typeText},
		{"manufacturer", typeText}, {"serial_number", typeText}, {"eliminated", typeInteger},
		{"manufactured_year", typeInteger}, {"managed_by", typeInteger},
		{"next_inspection", typeText}, {"next_periodic_test", typeText},
	}},
	{Name: TablePlacement, Columns: []Column{
		{"id", typeID}, {"description", typeText}, {"created_at", typeText},
		{"firedistinguisher", typeInteger}, {"building", typeInteger},
	}},
	{Name: TableServiceAction, Columns: []Column{
		{"id", typeID}, {"action_type", typeText}, {"description", typeText},
		{"created_at", typeText}, {"firedistinguisher", typeInteger},
	}},
	{Name: TableInspection, Columns: []Column{
		{"id", typeID}, {"inspector", typeText}, {"date", typeText}, {"notes", typeText},
		{"building", typeInteger}, {"created_at", typeText}, {"uploaded_file", typeText},
	}},
	{Name: TableFaultInspection, Columns: []Column{
		{"id", typeID}, {"fault", typeInteger}, {"short_name", typeText}, {"description", typeText},
		{"inspection", typeInteger}, {"notes", typeText}, {"responsible_person", typeText},
		{"fix_due_date", typeText}, {"resolved", typeInteger}, {"present", typeInteger},
	}},
	{Name: TableFaultPhoto, Columns: []Column{
		{"id", typeID}, {"fault_inspection", typeInteger}, {"photo_blob", typeBlob}, {"uploaded_at", typeText},
	}},
	{Name: TableFiles, Columns: []Column{
		{"id", typeID}, {"name", typeText}, {"path", typeText}, {"content_blob", typeBlob},
		{"created_at", typeText}, {"updated_at", typeText},
	}},
}

// RequiredTables is the set a file must contain to pass verification.
var RequiredTables = func() []string {
	names := make([]string, len(Tables))
	for i, t := range Tables {
		names[i] = t.Name
	}
	return names
}()

// Spec returns the descriptor for a table name.
func Spec(name string) (TableSpec, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSpec{}, false
}
