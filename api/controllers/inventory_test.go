package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	inventorysvc "phonestore-backend/internal/inventory"
	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
	"phonestore-backend/pkg/logger"
)

type stubInventoryService struct {
	applyCalls []inventorysvc.ApplyDeltaInput
	setCalls   int
	result     *inventorysvc.ApplyDeltaResult
	err        error
}

func (s *stubInventoryService) ApplyDelta(ctx context.Context, input inventorysvc.ApplyDeltaInput) (*inventorysvc.ApplyDeltaResult, error) {
	s.applyCalls = append(s.applyCalls, input)
	return s.result, s.err
}

func (s *stubInventoryService) ApplyDeltaTx(ctx context.Context, tx *gorm.DB, input inventorysvc.ApplyDeltaInput) (*inventorysvc.ApplyDeltaResult, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) SetAbsolute(ctx context.Context, variantID uuid.UUID, quantity int, actor string) (*inventorysvc.ApplyDeltaResult, error) {
	s.setCalls++
	return s.result, s.err
}

func (s *stubInventoryService) History(ctx context.Context, filter inventorysvc.HistoryFilter) ([]inventorysvc.TxView, error) {
	return nil, nil
}

func (s *stubInventoryService) Summary(ctx context.Context) ([]inventorysvc.StockSummary, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func stubResult(variantID uuid.UUID, stock int) *inventorysvc.ApplyDeltaResult {
	return &inventorysvc.ApplyDeltaResult{
		Variant: &models.Variant{ID: variantID, StockQuantity: stock},
		Entry: &models.InventoryTx{
			ID:        uuid.New(),
			VariantID: variantID,
			Quantity:  stock,
			Type:      enums.InventoryTxTypeRestock,
			Reason:    "initial stock",
			CreatedBy: "staff",
		},
	}
}

func TestInventoryTxCreate(t *testing.T) {
	logg := testLogger()
	variantID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubInventoryService{result: stubResult(variantID, 12)}
		body := `{"variant_id":"` + variantID.String() + `","delta":12,"type":"restock","reason":"initial stock","actor":"staff"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		InventoryTxCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stub.applyCalls) != 1 {
			t.Fatalf("expected one ApplyDelta call, got %d", len(stub.applyCalls))
		}
		if got := stub.applyCalls[0].Type; got != enums.InventoryTxTypeRestock {
			t.Fatalf("expected restock type, got %s", got)
		}

		var payload struct {
			Data struct {
				StockQuantity int `json:"stock_quantity"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		if payload.Data.StockQuantity != 12 {
			t.Fatalf("expected stock 12 got %d", payload.Data.StockQuantity)
		}
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		stub := &stubInventoryService{result: stubResult(variantID, 12)}
		body := `{"variant_id":"` + variantID.String() + `","delta":1,"type":"teleport","reason":"x","actor":"staff"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		InventoryTxCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if len(stub.applyCalls) != 0 {
			t.Fatalf("service should not be reached with a bad type")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		stub := &stubInventoryService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/transactions", strings.NewReader(`{"delta":1}`))
		rec := httptest.NewRecorder()
		InventoryTxCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestInventorySetStock(t *testing.T) {
	logg := testLogger()
	variantID := uuid.New()

	makeRequest := func(rawID, body string, stub *stubInventoryService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/inventory/variants/"+rawID+"/stock", strings.NewReader(body))
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("variantId", rawID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		InventorySetStock(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubInventoryService{result: stubResult(variantID, 7)}
		rec := makeRequest(variantID.String(), `{"quantity":7,"actor":"staff"}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.setCalls != 1 {
			t.Fatalf("expected SetAbsolute to be invoked")
		}
	})

	t.Run("invalid variant id", func(t *testing.T) {
		stub := &stubInventoryService{}
		rec := makeRequest("not-a-uuid", `{"quantity":7,"actor":"staff"}`, stub)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("missing actor", func(t *testing.T) {
		stub := &stubInventoryService{}
		rec := makeRequest(variantID.String(), `{"quantity":7,"actor":"  "}`, stub)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without actor, got %d", rec.Code)
		}
		if stub.setCalls != 0 {
			t.Fatalf("service should not be reached without an actor")
		}
	})
}
