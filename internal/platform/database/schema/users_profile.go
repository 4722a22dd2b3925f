package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table        string
	ID           string
	Email        string
	DisplayName  string
	Role         string
	DepartmentID string
	CreatedAt    string
	UpdatedAt    string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:        "users.profile",
	ID:           "id",
	Email:        "email",
	DisplayName:  "displayname",
	Role:         "role",
	DepartmentID: "departmentid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserProfileTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.DisplayName, t.Role, t.DepartmentID, t.CreatedAt, t.UpdatedAt,
	}
}
