package model

// Principal is the authenticated caller extracted from the access token.
// The lot is a single-operator business; roles only distinguish the operator
// from read-only office staff.
type Principal struct {
	UserID string
	Name   string
	Role   string
}

const (
	RoleOperator = "OPERATOR"
	RoleReadOnly = "READONLY"
)

func (p Principal) IsOperator() bool { return p.Role == RoleOperator }
func (p Principal) IsReadOnly() bool { return p.Role == RoleReadOnly }
