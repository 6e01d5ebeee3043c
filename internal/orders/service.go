package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"phonestore-backend/internal/inventory"
	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
	pkgerrors "phonestore-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartConverter interface {
	SnapshotTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Cart, error)
	ClearTx(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type stockMover interface {
	ApplyDeltaTx(ctx context.Context, tx *gorm.DB, input inventory.ApplyDeltaInput) (*inventory.ApplyDeltaResult, error)
}

// allowedTransitions enumerates every legal status edge. Anything absent here
// is refused, which makes completed and cancelled terminal.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
}

// Service converts carts into orders and drives each order through its status
// lifecycle. Stock moves only on confirm and on cancel-after-confirm, and
// always through the inventory ledger inside the same transaction as the
// status change.
type Service interface {
	CreateFromCart(ctx context.Context, input CreateInput) (*OrderView, error)
	Transition(ctx context.Context, input TransitionInput) (*OrderView, error)
	List(ctx context.Context, status *enums.OrderStatus) ([]OrderView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
}

// CreateInput captures a checkout request.
type CreateInput struct {
	CustomerID      uuid.UUID
	ShippingAddress string
}

// TransitionInput captures a status change request.
type TransitionInput struct {
	OrderID      uuid.UUID
	Target       enums.OrderStatus
	Actor        string
	CancelReason *string
}

type service struct {
	repo  Repository
	cart  cartConverter
	stock stockMover
	tx    txRunner
}

// NewService wires an order service with the provided stack.
func NewService(repo Repository, cart cartConverter, stock stockMover, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart converter required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock mover required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, cart: cart, stock: stock, tx: tx}, nil
}

// CreateFromCart snapshots the customer's cart into a pending order and
// empties the cart. Stock is checked but never decremented here; the
// decrement happens on confirm.
func (s *service) CreateFromCart(ctx context.Context, input CreateInput) (*OrderView, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.ShippingAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var view *OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.cart.SnapshotTx(ctx, tx, input.CustomerID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		order := &models.Order{
			ID:              uuid.New(),
			CustomerID:      input.CustomerID,
			Status:          enums.OrderStatusPending,
			PaymentMethod:   enums.PaymentMethodCOD,
			ShippingAddress: input.ShippingAddress,
		}
		total := decimal.Zero
		for _, item := range cart.Items {
			if item.Variant == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			if item.Variant.StockQuantity < item.Qty {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"variant_id": item.VariantID,
						"available":  item.Variant.StockQuantity,
						"requested":  item.Qty,
					})
			}

			line := models.OrderItem{
				ID:                  uuid.New(),
				OrderID:             order.ID,
				VariantID:           item.VariantID,
				VariantNameSnapshot: item.Variant.Name,
				UnitPrice:           item.UnitPrice,
				Quantity:            item.Qty,
				LineTotal:           item.LineAmount,
			}
			if item.Variant.Product != nil {
				line.ProductNameSnapshot = item.Variant.Product.Name
			}
			order.Items = append(order.Items, line)
			total = total.Add(item.LineAmount)
		}
		order.TotalAmount = total

		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.cart.ClearTx(ctx, tx, cart.ID); err != nil {
			return err
		}

		v := newOrderView(order)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Transition moves an order along one legal status edge and applies the
// matching stock movement. The order row stays locked until both commit
// together.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*OrderView, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Target))
	}
	if input.Actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}

	var view *OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		if !transitionAllowed(order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "state transition disallowed").
				WithDetails(map[string]any{
					"from": order.Status,
					"to":   input.Target,
				})
		}

		if err := s.moveStock(ctx, tx, order, input.Target); err != nil {
			return err
		}

		now := time.Now().UTC()
		actor := input.Actor
		switch input.Target {
		case enums.OrderStatusConfirmed:
			order.ConfirmedAt = &now
			order.ConfirmedBy = &actor
		case enums.OrderStatusCompleted:
			order.CompletedAt = &now
			order.CompletedBy = &actor
		case enums.OrderStatusCancelled:
			order.CancelledAt = &now
			order.CancelledBy = &actor
			order.CancelReason = input.CancelReason
		}
		order.Status = input.Target

		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
		}

		// The response is built from the row held under the lock. A re-read
		// after commit could observe a later concurrent transition.
		v := newOrderView(order)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// moveStock performs the ledger movement a transition implies. Confirming
// exports every line; cancelling a confirmed order imports them back.
// Everything else leaves stock untouched.
func (s *service) moveStock(ctx context.Context, tx *gorm.DB, order *models.Order, target enums.OrderStatus) error {
	var (
		sign   int
		txType enums.InventoryTxType
		reason string
	)
	switch {
	case target == enums.OrderStatusConfirmed:
		sign, txType = -1, enums.InventoryTxTypeExport
		reason = fmt.Sprintf("Order confirmed: %s", order.ID)
	case target == enums.OrderStatusCancelled && order.Status == enums.OrderStatusConfirmed:
		sign, txType = 1, enums.InventoryTxTypeImport
		reason = fmt.Sprintf("Order cancelled: %s", order.ID)
	default:
		return nil
	}

	for _, item := range order.Items {
		_, err := s.stock.ApplyDeltaTx(ctx, tx, inventory.ApplyDeltaInput{
			VariantID: item.VariantID,
			Delta:     sign * item.Quantity,
			Type:      txType,
			Reason:    reason,
			Actor:     "system",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, status *enums.OrderStatus) ([]OrderView, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *status))
	}

	orders, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	view := newOrderView(order)
	return &view, nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
