package constants

const (
	RoleStudent    = "student"
	RoleMentor     = "mentor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// AdminRoles have blanket authority over every course.
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

// Error messages shared by the validator and the course service.
const (
	MsgInvalidLevel    = "Invalid course level"
	MsgInvalidCategory = "Invalid category ID"
	MsgInvalidStatus   = "Invalid course status"
)
