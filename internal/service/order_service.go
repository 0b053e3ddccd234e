package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/authz"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

type OrderService struct {
	tx       port.Transactor
	orders   port.OrderRepository
	members  port.MembershipRepository
	events   port.EventPublisher
	currency currency.Unit
	paging   Paging
	log      zerolog.Logger
	now      func() time.Time
}

func NewOrderService(
	tx port.Transactor,
	orders port.OrderRepository,
	members port.MembershipRepository,
	events port.EventPublisher,
	unit currency.Unit,
	paging Paging,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		tx:       tx,
		orders:   orders,
		members:  members,
		events:   events,
		currency: unit,
		paging:   paging,
		log:      log.With().Str("component", "orders").Logger(),
		now:      time.Now,
	}
}

// PlaceOrder turns the caller's cart into an order. Reading the cart,
// inserting the order with its items and draining the cart share one
// transaction; the cart lines stay locked until it ends.
func (s *OrderService) PlaceOrder(ctx context.Context, caller domain.Caller) (domain.Order, error) {
	if err := authz.Permit(caller, authz.ResourceOrders, authz.ActionCreate); err != nil {
		return domain.Order{}, err
	}

	var order domain.Order

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		cart, err := repos.Carts.LockCart(ctx, caller.UserID)
		if err != nil {
			return fmt.Errorf("repos.Carts.LockCart: %w", err)
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		total, err := cart.Total(s.currency)
		if err != nil {
			return fmt.Errorf("cart.Total: %w", err)
		}

		order, err = domain.NewOrderFromCart(uuid.New(), cart, total, s.now().UTC().Truncate(time.Microsecond))
		if err != nil {
			return fmt.Errorf("domain.NewOrderFromCart: %w", err)
		}

		if err := repos.Orders.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("repos.Orders.CreateOrder: %w", err)
		}

		removed, err := repos.Carts.Clear(ctx, caller.UserID)
		if err != nil {
			return fmt.Errorf("repos.Carts.Clear: %w", err)
		}
		if removed != int64(len(cart.Items)) {
			return fmt.Errorf("%w: cart changed during checkout, read %d lines, removed %d",
				domain.ErrConflict, len(cart.Items), removed)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("owner_id", order.OwnerID).
		Int("items", len(order.Items)).
		Str("total", order.TotalPrice.String()).
		Msg("order placed")

	publish(ctx, s.log, s.events, EventOrderPlaced, domain.NewOrderPlaced(order))

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.Order], error) {
	scope, err := s.scope(caller, authz.ActionList)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}

	query, err = s.paging.normalize(query)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}

	page, err := s.orders.ListOrders(ctx, scope, query)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("s.orders.ListOrders: %w", err)
	}

	return page, nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Order, error) {
	scope, err := s.scope(caller, authz.ActionRetrieve)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.GetOrder(ctx, scope, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.GetOrder: %w", err)
	}

	return order, nil
}

// ReplaceOrder is the full update: the status is mandatory.
func (s *OrderService) ReplaceOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	if patch.Delivered == nil {
		if err := authz.Permit(caller, authz.ResourceOrders, authz.ActionUpdate); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.Invalid("status is required")
	}

	return s.updateOrder(ctx, caller, id, authz.ActionUpdate, patch)
}

// PatchOrder changes only the fields present in patch; at least one is required.
func (s *OrderService) PatchOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	if patch.IsEmpty() {
		if err := authz.Permit(caller, authz.ResourceOrders, authz.ActionPartialUpdate); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.Invalid("nothing to update, expected status or delivery_crew")
	}

	return s.updateOrder(ctx, caller, id, authz.ActionPartialUpdate, patch)
}

func (s *OrderService) updateOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, action authz.Action, patch domain.OrderPatch) (domain.Order, error) {
	scope, err := s.scope(caller, action)
	if err != nil {
		return domain.Order{}, err
	}

	if patch.SetDeliveryCrew && caller.Role != domain.RoleManager {
		return domain.Order{}, fmt.Errorf("only managers assign delivery crew: %w", domain.ErrForbidden)
	}

	if patch.SetDeliveryCrew && patch.DeliveryCrewID != "" {
		ok, err := s.members.IsMember(ctx, domain.GroupDeliveryCrew, patch.DeliveryCrewID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.members.IsMember: %w", err)
		}
		if !ok {
			return domain.Order{}, fmt.Errorf("user %s: %w", patch.DeliveryCrewID, domain.ErrInvalidAssignee)
		}
	}

	order, err := s.orders.UpdateOrder(ctx, scope, id, patch)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.UpdateOrder: %w", err)
	}

	publish(ctx, s.log, s.events, EventOrderUpdated, domain.OrderUpdated{
		OrderID:        order.ID,
		Delivered:      order.Delivered,
		DeliveryCrewID: order.DeliveryCrewID,
		UpdatedBy:      caller.UserID,
	})

	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	scope, err := s.scope(caller, authz.ActionDestroy)
	if err != nil {
		return err
	}

	deleted, err := s.orders.DeleteOrder(ctx, scope, id)
	if err != nil {
		return fmt.Errorf("s.orders.DeleteOrder: %w", err)
	}
	if !deleted {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	s.log.Info().Str("order_id", id.String()).Str("by", caller.UserID).Msg("order deleted")
	return nil
}

func (s *OrderService) scope(caller domain.Caller, action authz.Action) (domain.OrderScope, error) {
	if err := authz.Permit(caller, authz.ResourceOrders, action); err != nil {
		return domain.OrderScope{}, err
	}
	return authz.OrderScope(caller)
}
