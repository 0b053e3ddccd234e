package port

import (
	"context"
)

type MembershipRepository interface {
	Groups(ctx context.Context, userID string) ([]string, error)
	IsMember(ctx context.Context, group, userID string) (bool, error)
	ListMembers(ctx context.Context, group string) ([]string, error)
	AddMember(ctx context.Context, group, userID string) error
	RemoveMember(ctx context.Context, group, userID string) (bool, error)
}
