package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"phonestore-backend/pkg/db"
	"phonestore-backend/pkg/db/models"
	pkgerrors "phonestore-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type variantLoader interface {
	FindVariantTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Variant, error)
}

// Service mutates one customer's cart. Every mutation locks the cart row
// first so concurrent writers serialize, and totals are recomputed from all
// lines inside the same transaction, so readers never observe a cart whose
// cached sums disagree with its items.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, customerID, variantID uuid.UUID, qty int) (*CartView, error)
	SetQuantity(ctx context.Context, lineID uuid.UUID, qty int) (*CartView, error)
	RemoveItem(ctx context.Context, lineID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	SnapshotTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Cart, error)
	ClearTx(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type service struct {
	repo     Repository
	variants variantLoader
	tx       txRunner
}

// NewService wires a cart service with the provided stack.
func NewService(repo Repository, variants variantLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, variants: variants, tx: tx}, nil
}

// Get returns the customer's cart, or an empty view when none exists yet.
// Reading never creates a cart row.
func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*CartView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	cart, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartView(customerID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	view := newCartView(cart)
	return &view, nil
}

func (s *service) AddItem(ctx context.Context, customerID, variantID uuid.UUID, qty int) (*CartView, error) {
	if customerID == uuid.Nil || variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id and variant id are required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive").
			WithDetails(map[string]any{"qty": qty})
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		variant, err := s.variants.FindVariantTx(ctx, tx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}

		cart, err := s.findOrCreateCart(ctx, repo, customerID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, variantID)
		switch {
		case err == nil:
			item.Qty += qty
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.CartItem{
				ID:        uuid.New(),
				CartID:    cart.ID,
				VariantID: variantID,
				Qty:       qty,
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		// The line is always repriced at the variant's current price, even
		// when an existing quantity is only being incremented.
		item.UnitPrice = variant.Price
		item.LineAmount = variant.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}

		view, err = s.recompute(ctx, repo, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SetQuantity replaces a line's quantity. Zero or negative quantities remove
// the line instead of failing.
func (s *service) SetQuantity(ctx context.Context, lineID uuid.UUID, qty int) (*CartView, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.findLine(ctx, repo, lineID)
		if err != nil {
			return err
		}

		if qty <= 0 {
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
			}
		} else {
			variant, err := s.variants.FindVariantTx(ctx, tx, item.VariantID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
			}
			item.Qty = qty
			item.UnitPrice = variant.Price
			item.LineAmount = variant.Price.Mul(decimal.NewFromInt(int64(qty)))
			if err := repo.SaveItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
			}
		}

		view, err = s.recompute(ctx, repo, item.CartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) RemoveItem(ctx context.Context, lineID uuid.UUID) (*CartView, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.findLine(ctx, repo, lineID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}

		view, err = s.recompute(ctx, repo, item.CartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByCustomerForUpdate(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		return s.ClearTx(ctx, tx, cart.ID)
	})
}

// SnapshotTx loads the customer's cart with all lines inside the caller's
// transaction, locking the cart row. The order state machine reads it while
// converting a cart, and the lock keeps a line added mid-checkout from being
// wiped by the clear without entering the order.
func (s *service) SnapshotTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.WithTx(tx).FindByCustomerForUpdate(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// ClearTx removes all lines and zeroes the cached totals inside the caller's
// transaction.
func (s *service) ClearTx(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	repo := s.repo.WithTx(tx)
	if err := repo.DeleteItems(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
	}
	if err := repo.UpdateTotals(ctx, cartID, 0, decimal.Zero); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart totals")
	}
	return nil
}

// findOrCreateCart returns the customer's cart with its row locked, creating
// it first when the customer has none. Holding the lock serializes every
// mutation of the same cart for the rest of the transaction.
func (s *service) findOrCreateCart(ctx context.Context, repo Repository, customerID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByCustomerForUpdate(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart = &models.Cart{
		ID:          uuid.New(),
		CustomerID:  customerID,
		TotalAmount: decimal.Zero,
	}
	if err := repo.Create(ctx, cart); err != nil {
		// Two first adds for the same customer can race on the unique
		// customer_id constraint; the loser adopts the winner's cart.
		if db.IsUniqueViolation(err, "") {
			return repo.FindByCustomerForUpdate(ctx, customerID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// findLine resolves a line and locks its cart before the mutation that
// follows. The line is read again once the lock is held, since it can change
// or vanish while the lock is awaited.
func (s *service) findLine(ctx context.Context, repo Repository, lineID uuid.UUID) (*models.CartItem, error) {
	item, err := repo.FindItemByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if _, err := repo.FindByIDForUpdate(ctx, item.CartID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
	}

	item, err = repo.FindItemByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return item, nil
}

// recompute rebuilds the cached totals from every remaining line and returns
// the fresh projection.
func (s *service) recompute(ctx context.Context, repo Repository, cartID uuid.UUID) (*CartView, error) {
	cart, err := repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	totalItems := 0
	totalAmount := decimal.Zero
	for _, item := range items {
		totalItems += item.Qty
		totalAmount = totalAmount.Add(item.LineAmount)
	}
	if err := repo.UpdateTotals(ctx, cartID, totalItems, totalAmount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart totals")
	}

	cart.TotalItems = totalItems
	cart.TotalAmount = totalAmount
	cart.Items = items
	view := newCartView(cart)
	return &view, nil
}
