package models

// Role identifies which audience a user belongs to. It is fixed at registration.
type Role string

const (
	Citizen   Role = "CITIZEN"
	Recycler  Role = "RECYCLER"
	Authority Role = "AUTHORITY"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case Citizen, Recycler, Authority:
		return true
	}
	return false
}
