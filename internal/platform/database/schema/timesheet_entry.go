package schema

// TimesheetEntryTable represents the 'timesheet.entry' table
type TimesheetEntryTable struct {
	Table     string
	ID        string
	UserID    string
	ClientID  string
	ProjectID string
	JobID     string
	ServiceID string
	TaskID    string
	EntryDate string
	Hours     string
	Notes     string
	CreatedAt string
	UpdatedAt string
}

// TimesheetEntry is the schema definition for timesheet.entry
var TimesheetEntry = TimesheetEntryTable{
	Table:     "timesheet.entry",
	ID:        "id",
	UserID:    "userid",
	ClientID:  "clientid",
	ProjectID: "projectid",
	JobID:     "jobid",
	ServiceID: "serviceid",
	TaskID:    "taskid",
	EntryDate: "entrydate",
	Hours:     "hours",
	Notes:     "notes",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t TimesheetEntryTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.ClientID, t.ProjectID, t.JobID, t.ServiceID, t.TaskID,
		t.EntryDate, t.Hours, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
