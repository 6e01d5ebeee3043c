package notes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
	pkgerrors "phonestore-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:notes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.StaffNote{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	order := models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		Status:          enums.OrderStatusPending,
		TotalAmount:     decimal.NewFromInt(100),
		PaymentMethod:   enums.PaymentMethodCOD,
		ShippingAddress: "12 Elm Street",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return &order
}

func TestCreateAndListNotes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	order := seedOrder(t, db)
	author := models.User{ID: uuid.New(), FullName: "Dana Smith", Email: "dana@example.com"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}
	ctx := context.Background()

	created, err := svc.Create(ctx, order.ID, author.ID, "  called the customer  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Content != "called the customer" {
		t.Fatalf("content not trimmed: %q", created.Content)
	}

	views, err := svc.ListByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("ListByOrder: %v", err)
	}
	if len(views) != 1 || views[0].AuthorName != "Dana Smith" {
		t.Fatalf("unexpected notes: %+v", views)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	order := seedOrder(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, order.ID, uuid.New(), "   "); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.Create(ctx, uuid.New(), uuid.New(), "lost order"); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
