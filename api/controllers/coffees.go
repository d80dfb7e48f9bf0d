package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeteria-labs/coffeeshop-backend/api/responses"
	"github.com/cafeteria-labs/coffeeshop-backend/api/validators"
	coffeesvc "github.com/cafeteria-labs/coffeeshop-backend/internal/coffees"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/pagination"
)

func CoffeeList(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		list, err := svc.ListCoffees(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CoffeeGet(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		coffeeID, err := pathUUID(r, "coffeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coffee, err := svc.GetCoffee(r.Context(), coffeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coffee)
	}
}

// CoffeeCreate handles new catalog entries.
func CoffeeCreate(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		var payload createCoffeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coffee, err := svc.CreateCoffee(r.Context(), coffeesvc.CreateCoffeeInput{
			Name:        strings.TrimSpace(payload.Name),
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
			TagIDs:      payload.TagIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coffee)
	}
}

type createCoffeeRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url" validate:"required"`
	TagIDs      []uuid.UUID     `json:"tag_ids" validate:"required"`
}

// CoffeeUpdate applies a partial update; absent fields are left unchanged.
func CoffeeUpdate(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		coffeeID, err := pathUUID(r, "coffeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCoffeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coffeesvc.UpdateCoffeeInput{
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
			TagIDs:      payload.TagIDs,
		}
		if payload.Name != nil {
			name := strings.TrimSpace(*payload.Name)
			input.Name = &name
		}

		coffee, err := svc.UpdateCoffee(r.Context(), coffeeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coffee)
	}
}

type updateCoffeeRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	TagIDs      *[]uuid.UUID     `json:"tag_ids,omitempty"`
}

func CoffeeDelete(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		coffeeID, err := pathUUID(r, "coffeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCoffee(r.Context(), coffeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CoffeeSearch filters the catalog by creation date range, name substring and
// tag names. tag_mode=all requires every listed tag.
func CoffeeSearch(svc coffeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coffee service unavailable"))
			return
		}

		startDate, err := validators.ParseQueryTime(r, "start_date", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endDate, err := validators.ParseQueryTime(r, "end_date", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mode, err := enums.ParseTagMatchMode(r.URL.Query().Get("tag_mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tag_mode").
				WithDetails(map[string]any{"field": "tag_mode", "allowed": []enums.TagMatchMode{enums.TagMatchAny, enums.TagMatchAll}}))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, maxSearchOffset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.SearchCoffees(r.Context(), coffeesvc.SearchParams{
			StartDate: startDate,
			EndDate:   endDate,
			Name:      validators.SanitizeString(r.URL.Query().Get("name"), 255),
			Tags:      validators.ParseQueryList(r, "tags"),
			TagMode:   mode,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

const maxSearchOffset = 1_000_000
