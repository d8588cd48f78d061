package domain

// Role enumerates the actor roles recognized by authorization rules.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCarrier  Role = "carrier"
	RoleCustomer Role = "customer"
)

// Principal is the authenticated actor performing a request. It is resolved
// per-request by the auth middleware and never persisted.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}
