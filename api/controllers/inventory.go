package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"phonestore-backend/api/responses"
	"phonestore-backend/api/validators"
	inventorysvc "phonestore-backend/internal/inventory"
	"phonestore-backend/pkg/enums"
	pkgerrors "phonestore-backend/pkg/errors"
	"phonestore-backend/pkg/logger"
)

type createInventoryTxRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Delta     int       `json:"delta" validate:"required"`
	Type      string    `json:"type" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
	Actor     string    `json:"actor" validate:"required"`
}

// InventoryTxCreate records one manual stock movement through the ledger.
func InventoryTxCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createInventoryTxRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txType, err := enums.ParseInventoryTxType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		result, err := svc.ApplyDelta(r.Context(), inventorysvc.ApplyDeltaInput{
			VariantID: payload.VariantID,
			Delta:     payload.Delta,
			Type:      txType,
			Reason:    payload.Reason,
			Actor:     payload.Actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newStockChangeResponse(result))
	}
}

func InventoryTxList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		variantID, err := validators.ParseQueryUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.History(r.Context(), inventorysvc.HistoryFilter{
			VariantID: variantID,
			From:      from,
			To:        to,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

func InventorySummary(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		summaries, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}

type setStockRequest struct {
	Quantity int    `json:"quantity"`
	Actor    string `json:"actor" validate:"required"`
}

// InventorySetStock is the staff correction endpoint: it replaces a variant's
// stock and records the difference as an adjustment.
func InventorySetStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantId"), "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(payload.Actor) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "actor is required"))
			return
		}

		result, err := svc.SetAbsolute(r.Context(), variantID, payload.Quantity, payload.Actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStockChangeResponse(result))
	}
}

type stockChangeResponse struct {
	VariantID     uuid.UUID  `json:"variant_id"`
	StockQuantity int        `json:"stock_quantity"`
	Status        string     `json:"status"`
	Entry         *entryView `json:"entry,omitempty"`
}

type entryView struct {
	ID        uuid.UUID `json:"id"`
	QtyChange int       `json:"qty_change"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"`
}

func newStockChangeResponse(result *inventorysvc.ApplyDeltaResult) stockChangeResponse {
	resp := stockChangeResponse{
		VariantID:     result.Variant.ID,
		StockQuantity: result.Variant.StockQuantity,
		Status:        string(result.Variant.Status()),
	}
	if result.Entry != nil {
		resp.Entry = &entryView{
			ID:        result.Entry.ID,
			QtyChange: result.Entry.Quantity,
			Type:      string(result.Entry.Type),
			Reason:    result.Entry.Reason,
			CreatedBy: result.Entry.CreatedBy,
		}
	}
	return resp
}
