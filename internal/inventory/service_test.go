package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
	pkgerrors "phonestore-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}, &models.InventoryTx{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, Options{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedVariant(t *testing.T, db *gorm.DB, stock int) *models.Variant {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: "Galaxy Z10", Brand: "Samsung"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.Variant{
		ID:            uuid.New(),
		ProductID:     product.ID,
		Name:          "256GB Black",
		Price:         decimal.NewFromInt(899),
		StockQuantity: stock,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return &variant
}

func TestApplyDeltaWritesStockAndLedger(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 5)

	result, err := svc.ApplyDelta(context.Background(), ApplyDeltaInput{
		VariantID: variant.ID,
		Delta:     -3,
		Type:      enums.InventoryTxTypeExport,
		Reason:    "manual export",
		Actor:     "staff-1",
	})
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if result.Variant.StockQuantity != 2 {
		t.Fatalf("expected stock 2, got %d", result.Variant.StockQuantity)
	}
	if result.Entry == nil || result.Entry.Quantity != -3 || result.Entry.Type != enums.InventoryTxTypeExport {
		t.Fatalf("unexpected ledger entry: %+v", result.Entry)
	}

	var count int64
	if err := db.Model(&models.InventoryTx{}).Where("variant_id = ?", variant.ID).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", count)
	}
}

func TestApplyDeltaInsufficientStockWritesNothing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 2)

	_, err := svc.ApplyDelta(context.Background(), ApplyDeltaInput{
		VariantID: variant.ID,
		Delta:     -5,
		Type:      enums.InventoryTxTypeExport,
		Reason:    "manual export",
		Actor:     "staff-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	var reloaded models.Variant
	if err := db.First(&reloaded, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if reloaded.StockQuantity != 2 {
		t.Fatalf("stock must be untouched, got %d", reloaded.StockQuantity)
	}

	var count int64
	if err := db.Model(&models.InventoryTx{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no ledger entries, got %d", count)
	}
}

func TestApplyDeltaUnknownVariant(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.ApplyDelta(context.Background(), ApplyDeltaInput{
		VariantID: uuid.New(),
		Delta:     5,
		Type:      enums.InventoryTxTypeRestock,
		Reason:    "restock",
		Actor:     "staff-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyDeltaValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 5)

	tests := []struct {
		name  string
		input ApplyDeltaInput
		code  pkgerrors.Code
	}{
		{
			name:  "zero delta",
			input: ApplyDeltaInput{VariantID: variant.ID, Delta: 0, Type: enums.InventoryTxTypeRestock, Actor: "a"},
			code:  pkgerrors.CodeInvalidQuantity,
		},
		{
			name:  "invalid type",
			input: ApplyDeltaInput{VariantID: variant.ID, Delta: 1, Type: enums.InventoryTxType("bogus"), Actor: "a"},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "missing actor",
			input: ApplyDeltaInput{VariantID: variant.ID, Delta: 1, Type: enums.InventoryTxTypeRestock},
			code:  pkgerrors.CodeValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ApplyDelta(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestSetAbsoluteRecordsAdjustment(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 5)

	result, err := svc.SetAbsolute(context.Background(), variant.ID, 12, "staff-1")
	if err != nil {
		t.Fatalf("SetAbsolute: %v", err)
	}
	if result.Variant.StockQuantity != 12 {
		t.Fatalf("expected stock 12, got %d", result.Variant.StockQuantity)
	}
	if result.Entry == nil || result.Entry.Quantity != 7 || result.Entry.Type != enums.InventoryTxTypeAdjustment {
		t.Fatalf("unexpected adjustment entry: %+v", result.Entry)
	}

	if _, err := svc.SetAbsolute(context.Background(), variant.ID, -1, "staff-1"); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeInvalidQuantity {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestSetAbsoluteNoChangeWritesNoEntry(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 5)

	result, err := svc.SetAbsolute(context.Background(), variant.ID, 5, "staff-1")
	if err != nil {
		t.Fatalf("SetAbsolute: %v", err)
	}
	if result.Entry != nil {
		t.Fatalf("expected no ledger entry for no-op correction")
	}

	var count int64
	if err := db.Model(&models.InventoryTx{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 entries, got %d", count)
	}
}

func TestLedgerSumReproducesStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	variant := seedVariant(t, db, 0)
	ctx := context.Background()

	steps := []ApplyDeltaInput{
		{VariantID: variant.ID, Delta: 10, Type: enums.InventoryTxTypeRestock, Reason: "initial", Actor: "staff-1"},
		{VariantID: variant.ID, Delta: -4, Type: enums.InventoryTxTypeExport, Reason: "sold", Actor: "staff-1"},
		{VariantID: variant.ID, Delta: 2, Type: enums.InventoryTxTypeImport, Reason: "returned", Actor: "staff-1"},
		{VariantID: variant.ID, Delta: -1, Type: enums.InventoryTxTypeExport, Reason: "sold", Actor: "staff-2"},
	}
	for _, step := range steps {
		if _, err := svc.ApplyDelta(ctx, step); err != nil {
			t.Fatalf("ApplyDelta %+v: %v", step, err)
		}
	}
	if _, err := svc.SetAbsolute(ctx, variant.ID, 3, "staff-2"); err != nil {
		t.Fatalf("SetAbsolute: %v", err)
	}

	var sum int
	if err := db.Model(&models.InventoryTx{}).
		Where("variant_id = ?", variant.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		t.Fatalf("sum deltas: %v", err)
	}

	var reloaded models.Variant
	if err := db.First(&reloaded, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if sum != reloaded.StockQuantity {
		t.Fatalf("ledger sum %d diverged from stock %d", sum, reloaded.StockQuantity)
	}
	if reloaded.StockQuantity != 3 {
		t.Fatalf("expected final stock 3, got %d", reloaded.StockQuantity)
	}
}

func TestHistoryFiltersAndOrdersDescending(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	first := seedVariant(t, db, 0)
	second := seedVariant(t, db, 0)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	entries := []models.InventoryTx{
		{VariantID: first.ID, Quantity: 5, Type: enums.InventoryTxTypeRestock, Reason: "a", CreatedBy: "x", CreatedAt: base},
		{VariantID: first.ID, Quantity: -2, Type: enums.InventoryTxTypeExport, Reason: "b", CreatedBy: "x", CreatedAt: base.Add(10 * time.Minute)},
		{VariantID: second.ID, Quantity: 7, Type: enums.InventoryTxTypeRestock, Reason: "c", CreatedBy: "x", CreatedAt: base.Add(20 * time.Minute)},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	views, err := svc.History(ctx, HistoryFilter{VariantID: &first.ID})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(views))
	}
	if views[0].QtyChange != -2 || views[1].QtyChange != 5 {
		t.Fatalf("expected newest first, got %+v", views)
	}

	from := base.Add(15 * time.Minute)
	views, err = svc.History(ctx, HistoryFilter{From: &from})
	if err != nil {
		t.Fatalf("History from: %v", err)
	}
	if len(views) != 1 || views[0].VariantID != second.ID {
		t.Fatalf("expected only the newest entry, got %+v", views)
	}
}

func TestSummaryFlagsLowStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	low := seedVariant(t, db, 2)
	high := seedVariant(t, db, 50)
	empty := seedVariant(t, db, 0)

	summaries, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(summaries))
	}
	if summaries[0].VariantID != empty.ID {
		t.Fatalf("expected ascending stock order, got %+v", summaries)
	}

	byID := map[uuid.UUID]StockSummary{}
	for _, s := range summaries {
		byID[s.VariantID] = s
	}
	if !byID[low.ID].LowStock || byID[high.ID].LowStock {
		t.Fatalf("low stock flags wrong: %+v", summaries)
	}
	if byID[empty.ID].Status != enums.VariantStatusOutOfStock || byID[high.ID].Status != enums.VariantStatusInStock {
		t.Fatalf("derived status wrong: %+v", summaries)
	}
}
