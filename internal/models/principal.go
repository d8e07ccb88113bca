package models

// Roles
const (
	RoleOwner = "owner"
)

// Principal is the authenticated caller forwarded by the auth layer. The
// service consumes it as-is; token issuance lives elsewhere.
type Principal struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}
