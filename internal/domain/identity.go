package domain

import "slices"

// Group names as stored in the membership table.
const (
	GroupManager      = "manager"
	GroupDeliveryCrew = "delivery_crew"
)

var KnownGroups = []string{GroupManager, GroupDeliveryCrew}

func IsKnownGroup(name string) bool {
	return slices.Contains(KnownGroups, name)
}

type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return GroupManager
	case RoleDeliveryCrew:
		return GroupDeliveryCrew
	default:
		return "customer"
	}
}

// RoleFromGroups picks the single effective role. Manager wins over delivery crew;
// anyone else is a customer.
func RoleFromGroups(groups []string) Role {
	switch {
	case slices.Contains(groups, GroupManager):
		return RoleManager
	case slices.Contains(groups, GroupDeliveryCrew):
		return RoleDeliveryCrew
	default:
		return RoleCustomer
	}
}

// Caller is the authenticated identity of a request. The zero value is anonymous.
type Caller struct {
	UserID string
	Groups []string
	Role   Role
}

func NewCaller(userID string, groups []string) Caller {
	return Caller{UserID: userID, Groups: groups, Role: RoleFromGroups(groups)}
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}
