package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
	pkgerrors "phonestore-backend/pkg/errors"
)

const (
	defaultHistoryLimit      = 100
	defaultLowStockThreshold = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the sole writer of stock quantities. Every change lands together
// with exactly one ledger entry or not at all.
type Service interface {
	ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*ApplyDeltaResult, error)
	ApplyDeltaTx(ctx context.Context, tx *gorm.DB, input ApplyDeltaInput) (*ApplyDeltaResult, error)
	SetAbsolute(ctx context.Context, variantID uuid.UUID, quantity int, actor string) (*ApplyDeltaResult, error)
	History(ctx context.Context, filter HistoryFilter) ([]TxView, error)
	Summary(ctx context.Context) ([]StockSummary, error)
}

type service struct {
	repo              Repository
	tx                txRunner
	historyLimit      int
	lowStockThreshold int
}

// Options tunes the read projections.
type Options struct {
	HistoryLimit      int
	LowStockThreshold int
}

// ApplyDeltaInput captures one stock mutation request.
type ApplyDeltaInput struct {
	VariantID uuid.UUID
	Delta     int
	Type      enums.InventoryTxType
	Reason    string
	Actor     string
}

// ApplyDeltaResult returns the updated variant alongside the ledger entry
// written for it.
type ApplyDeltaResult struct {
	Variant *models.Variant
	Entry   *models.InventoryTx
}

// NewService wires an inventory service with the provided stack.
func NewService(repo Repository, tx txRunner, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = defaultLowStockThreshold
	}
	return &service{
		repo:              repo,
		tx:                tx,
		historyLimit:      opts.HistoryLimit,
		lowStockThreshold: opts.LowStockThreshold,
	}, nil
}

func (s *service) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*ApplyDeltaResult, error) {
	var result *ApplyDeltaResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.ApplyDeltaTx(ctx, tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyDeltaTx applies the delta inside the caller's transaction. The order
// state machine uses this to fold multi-line stock movements into one commit.
func (s *service) ApplyDeltaTx(ctx context.Context, tx *gorm.DB, input ApplyDeltaInput) (*ApplyDeltaResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)

	affected, err := repo.ApplyStockDelta(ctx, input.VariantID, input.Delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock delta")
	}
	if affected == 0 {
		variant, findErr := repo.FindVariant(ctx, input.VariantID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load variant")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"variant_id": input.VariantID,
				"available":  variant.StockQuantity,
				"requested":  -input.Delta,
			})
	}

	entry := &models.InventoryTx{
		VariantID: input.VariantID,
		Quantity:  input.Delta,
		Type:      input.Type,
		Reason:    input.Reason,
		CreatedBy: input.Actor,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ledger entry")
	}

	variant, err := repo.FindVariant(ctx, input.VariantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variant")
	}

	return &ApplyDeltaResult{Variant: variant, Entry: entry}, nil
}

// SetAbsolute is the staff correction path. It locks the row, derives the
// delta against the current stock and records it as an adjustment.
func (s *service) SetAbsolute(ctx context.Context, variantID uuid.UUID, quantity int, actor string) (*ApplyDeltaResult, error) {
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "stock quantity cannot be negative").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}

	var result *ApplyDeltaResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		variant, err := repo.FindVariantForUpdate(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock variant")
		}

		delta := quantity - variant.StockQuantity
		if delta == 0 {
			result = &ApplyDeltaResult{Variant: variant}
			return nil
		}

		var txErr error
		result, txErr = s.ApplyDeltaTx(ctx, tx, ApplyDeltaInput{
			VariantID: variantID,
			Delta:     delta,
			Type:      enums.InventoryTxTypeAdjustment,
			Reason:    fmt.Sprintf("Stock corrected to %d", quantity),
			Actor:     actor,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) History(ctx context.Context, filter HistoryFilter) ([]TxView, error) {
	entries, err := s.repo.ListEntries(ctx, filter, s.historyLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	views := make([]TxView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newTxView(entry))
	}
	return views, nil
}

func (s *service) Summary(ctx context.Context) ([]StockSummary, error) {
	variants, err := s.repo.ListVariantsByStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}

	summaries := make([]StockSummary, 0, len(variants))
	for _, variant := range variants {
		summaries = append(summaries, newStockSummary(variant, s.lowStockThreshold))
	}
	return summaries, nil
}

func validateInput(input ApplyDeltaInput) error {
	if input.VariantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Delta == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "delta must be non-zero")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory transaction type %q", input.Type))
	}
	if input.Actor == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}
	return nil
}
