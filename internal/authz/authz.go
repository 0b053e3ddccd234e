// Package authz decides which role may perform which action on which
// resource, and how far order queries are narrowed for a caller.
package authz

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/littlelemon/internal/domain"
)

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

type Resource string

const (
	ResourceOrders     Resource = "orders"
	ResourceCart       Resource = "cart"
	ResourceMenuItems  Resource = "menu_items"
	ResourceCategories Resource = "categories"
	ResourceBooks      Resource = "books"
	ResourceRatings    Resource = "ratings"
	ResourceGroups     Resource = "groups"
)

// actor is a role plus the anonymous pseudo-role.
type actor int

const (
	anonymous actor = iota
	customer
	deliveryCrew
	manager
)

var (
	all      = []Action{ActionList, ActionRetrieve, ActionCreate, ActionUpdate, ActionPartialUpdate, ActionDestroy}
	readOnly = []Action{ActionList, ActionRetrieve}
	cartOps  = []Action{ActionList, ActionCreate, ActionDestroy}
	rate     = []Action{ActionList, ActionCreate}
)

var table = map[Resource]map[actor][]Action{
	ResourceOrders: {
		customer:     {ActionCreate, ActionList, ActionRetrieve},
		deliveryCrew: {ActionList, ActionPartialUpdate},
		manager:      all,
	},
	ResourceCart: {
		customer:     cartOps,
		deliveryCrew: cartOps,
		manager:      cartOps,
	},
	ResourceMenuItems: {
		anonymous:    readOnly,
		customer:     readOnly,
		deliveryCrew: readOnly,
		manager:      all,
	},
	ResourceCategories: {
		anonymous:    readOnly,
		customer:     readOnly,
		deliveryCrew: readOnly,
		manager:      {ActionList, ActionRetrieve, ActionCreate, ActionDestroy},
	},
	ResourceBooks: {
		anonymous:    readOnly,
		customer:     readOnly,
		deliveryCrew: readOnly,
		manager:      all,
	},
	ResourceRatings: {
		anonymous:    {ActionList},
		customer:     rate,
		deliveryCrew: rate,
		manager:      rate,
	},
	ResourceGroups: {
		manager: {ActionList, ActionCreate, ActionDestroy},
	},
}

func actorOf(c domain.Caller) actor {
	if !c.Authenticated() {
		return anonymous
	}

	switch c.Role {
	case domain.RoleManager:
		return manager
	case domain.RoleDeliveryCrew:
		return deliveryCrew
	default:
		return customer
	}
}

// Allowed reports whether the table grants action on resource to the caller.
// Unknown resources and actions are denied.
func Allowed(c domain.Caller, resource Resource, action Action) bool {
	roles, ok := table[resource]
	if !ok {
		return false
	}
	return slices.Contains(roles[actorOf(c)], action)
}

// Permit is Allowed as an error: ErrUnauthenticated for anonymous callers,
// ErrForbidden for everybody else.
func Permit(c domain.Caller, resource Resource, action Action) error {
	if Allowed(c, resource, action) {
		return nil
	}

	if !c.Authenticated() {
		return fmt.Errorf("%s %s: %w", action, resource, domain.ErrUnauthenticated)
	}
	return fmt.Errorf("%s %s as %s: %w", action, resource, c.Role, domain.ErrForbidden)
}

func IsManager(groups []string) bool {
	return slices.Contains(groups, domain.GroupManager)
}

func IsDeliveryCrew(groups []string) bool {
	return slices.Contains(groups, domain.GroupDeliveryCrew)
}

// IsCustomer is true for anyone outside both privileged groups.
func IsCustomer(groups []string) bool {
	return !IsManager(groups) && !IsDeliveryCrew(groups)
}

// OrderScope narrows order queries to what the caller may see: managers see
// everything, delivery crew their assignments, customers their own orders.
// Anonymous callers have no scope at all.
func OrderScope(c domain.Caller) (domain.OrderScope, error) {
	if !c.Authenticated() {
		return domain.OrderScope{}, domain.ErrUnauthenticated
	}

	switch c.Role {
	case domain.RoleManager:
		return domain.OrderScope{}, nil
	case domain.RoleDeliveryCrew:
		return domain.OrderScope{DeliveryCrewID: c.UserID}, nil
	default:
		return domain.OrderScope{OwnerID: c.UserID}, nil
	}
}
