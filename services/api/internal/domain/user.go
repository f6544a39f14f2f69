package domain

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleArtist   UserRole = "artist"
	UserRoleAdmin    UserRole = "admin"
)

// User is the identity-provider view of a caller. Authentication itself is an
// external collaborator; this subsystem only resolves subjects to roles.
type User struct {
	ID    string
	Email string
	Role  UserRole
}

// Customer links a user to their purchase profile.
type Customer struct {
	ID     string
	UserID string
	Name   string
}
