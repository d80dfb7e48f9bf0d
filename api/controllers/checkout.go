package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cafeteria-labs/coffeeshop-backend/api/responses"
	"github.com/cafeteria-labs/coffeeshop-backend/api/validators"
	checkoutsvc "github.com/cafeteria-labs/coffeeshop-backend/internal/checkout"
	ordersvc "github.com/cafeteria-labs/coffeeshop-backend/internal/orders"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
)

// Checkout converts a cart into a pending order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), checkoutsvc.CreateOrderInput{
			CartID:          payload.CartID,
			DeliveryAddress: payload.DeliveryAddress,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type checkoutRequest struct {
	CartID          uuid.UUID `json:"cart_id" validate:"required"`
	DeliveryAddress string    `json:"delivery_address"`
	PaymentMethod   string    `json:"payment_method"`
}

func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
