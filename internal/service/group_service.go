package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikolayk812/littlelemon/internal/authz"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/rs/zerolog"
)

type GroupService struct {
	members port.MembershipRepository
	log     zerolog.Logger
}

func NewGroupService(members port.MembershipRepository, log zerolog.Logger) *GroupService {
	return &GroupService{
		members: members,
		log:     log.With().Str("component", "groups").Logger(),
	}
}

// Identify builds the caller for a user id forwarded by the gateway. An empty
// id is the anonymous caller.
func (s *GroupService) Identify(ctx context.Context, userID string) (domain.Caller, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Caller{}, nil
	}

	groups, err := s.members.Groups(ctx, userID)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("s.members.Groups: %w", err)
	}

	return domain.NewCaller(userID, groups), nil
}

func (s *GroupService) ListMembers(ctx context.Context, caller domain.Caller, group string) ([]string, error) {
	if err := s.check(caller, group, authz.ActionList); err != nil {
		return nil, err
	}

	members, err := s.members.ListMembers(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("s.members.ListMembers: %w", err)
	}

	return members, nil
}

// AddMember is idempotent: adding an existing member succeeds.
func (s *GroupService) AddMember(ctx context.Context, caller domain.Caller, group, userID string) error {
	if err := s.check(caller, group, authz.ActionCreate); err != nil {
		return err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Invalid("username is required")
	}

	if err := s.members.AddMember(ctx, group, userID); err != nil {
		return fmt.Errorf("s.members.AddMember: %w", err)
	}

	s.log.Info().Str("group", group).Str("user_id", userID).Str("by", caller.UserID).Msg("member added")
	return nil
}

func (s *GroupService) RemoveMember(ctx context.Context, caller domain.Caller, group, userID string) error {
	if err := s.check(caller, group, authz.ActionDestroy); err != nil {
		return err
	}

	removed, err := s.members.RemoveMember(ctx, group, userID)
	if err != nil {
		return fmt.Errorf("s.members.RemoveMember: %w", err)
	}
	if !removed {
		return fmt.Errorf("user %s in group %s: %w", userID, group, domain.ErrNotFound)
	}

	s.log.Info().Str("group", group).Str("user_id", userID).Str("by", caller.UserID).Msg("member removed")
	return nil
}

func (s *GroupService) check(caller domain.Caller, group string, action authz.Action) error {
	if err := authz.Permit(caller, authz.ResourceGroups, action); err != nil {
		return err
	}
	if !domain.IsKnownGroup(group) {
		return fmt.Errorf("group %q: %w", group, domain.ErrNotFound)
	}
	return nil
}
