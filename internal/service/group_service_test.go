package service_test

import (
	"testing"

	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService_Identify(t *testing.T) {
	store := newMemStore()
	svc := service.NewGroupService(memMembers{store}, zerolog.Nop())

	store.addMember(domain.GroupDeliveryCrew, "both")
	store.addMember(domain.GroupManager, "both")
	store.addMember(domain.GroupDeliveryCrew, "rider")

	tests := []struct {
		name     string
		userID   string
		wantAuth bool
		wantRole domain.Role
	}{
		{name: "anonymous", userID: ""},
		{name: "blank is anonymous", userID: "   "},
		{name: "customer", userID: "alice", wantAuth: true, wantRole: domain.RoleCustomer},
		{name: "delivery crew", userID: "rider", wantAuth: true, wantRole: domain.RoleDeliveryCrew},
		{name: "manager wins", userID: "both", wantAuth: true, wantRole: domain.RoleManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := svc.Identify(t.Context(), tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, caller.Authenticated())
			if tt.wantAuth {
				assert.Equal(t, tt.wantRole, caller.Role)
			}
		})
	}
}

func TestGroupService_Members(t *testing.T) {
	store := newMemStore()
	svc := service.NewGroupService(memMembers{store}, zerolog.Nop())
	ctx := t.Context()
	manager := managerCaller()

	require.NoError(t, svc.AddMember(ctx, manager, domain.GroupDeliveryCrew, "rider"))
	// adding twice is fine
	require.NoError(t, svc.AddMember(ctx, manager, domain.GroupDeliveryCrew, "rider"))
	require.NoError(t, svc.AddMember(ctx, manager, domain.GroupManager, "boss"))

	members, err := svc.ListMembers(ctx, manager, domain.GroupDeliveryCrew)
	require.NoError(t, err)
	assert.Equal(t, []string{"rider"}, members)

	caller, err := svc.Identify(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDeliveryCrew, caller.Role)

	tests := []struct {
		name    string
		caller  domain.Caller
		group   string
		userID  string
		wantErr error
	}{
		{name: "unknown group", caller: manager, group: "chefs", userID: "rider", wantErr: domain.ErrNotFound},
		{name: "empty username", caller: manager, group: domain.GroupManager, userID: " ", wantErr: domain.ErrValidation},
		{name: "customer", caller: customerCaller(), group: domain.GroupManager, userID: "rider", wantErr: domain.ErrForbidden},
		{name: "delivery crew", caller: crewCaller(), group: domain.GroupDeliveryCrew, userID: "x", wantErr: domain.ErrForbidden},
		{name: "anonymous", caller: domain.Caller{}, group: domain.GroupManager, userID: "rider", wantErr: domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddMember(t.Context(), tt.caller, tt.group, tt.userID)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.NoError(t, svc.RemoveMember(ctx, manager, domain.GroupDeliveryCrew, "rider"))
	err = svc.RemoveMember(ctx, manager, domain.GroupDeliveryCrew, "rider")
	require.ErrorIs(t, err, domain.ErrNotFound)

	members, err = svc.ListMembers(ctx, manager, domain.GroupDeliveryCrew)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = svc.ListMembers(ctx, customerCaller(), domain.GroupManager)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
