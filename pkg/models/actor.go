package models

// Role is the coarse permission level carried in a bearer token.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleShop   Role = "SHOP"
	RoleClient Role = "CLIENT"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleShop, RoleClient:
		return Role(s), true
	}
	return "", false
}

// Actor identifies who is performing an operation. System actors are trusted
// service-to-service callers (the payment notification path) and are kept
// distinct from end users so the authorization matrix stays auditable.
type Actor struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
	System  bool   `json:"system,omitempty"`
}

// SystemActor returns the trusted non-human caller used for cross-service
// status updates.
func SystemActor(service string) Actor {
	return Actor{Subject: service, Role: RoleAdmin, System: true}
}
