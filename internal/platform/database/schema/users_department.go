package schema

// UserDepartmentTable represents the 'users.department' table
type UserDepartmentTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
}

// UserDepartment is the schema definition for users.department
var UserDepartment = UserDepartmentTable{
	Table:     "users.department",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserDepartmentTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt}
}
