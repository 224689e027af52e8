package domain

// ID is used across domain entities.
type ID = int64

// Role values carried in the auth credential.
const (
	RoleCustomer  = "customer"
	RoleEmployee  = "employee"
	RoleTourGuide = "tourguide"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

// RequestContext carries the authenticated identity for one request.
// HR capability is not stored here; StaffService resolves it per request
// from the employee row.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}

// IsStaff reports whether the role belongs to back-office personnel.
func (rc RequestContext) IsStaff() bool {
	switch rc.Role {
	case RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}
