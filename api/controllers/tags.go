package controllers

import (
	"net/http"

	"github.com/cafeteria-labs/coffeeshop-backend/api/responses"
	"github.com/cafeteria-labs/coffeeshop-backend/api/validators"
	tagsvc "github.com/cafeteria-labs/coffeeshop-backend/internal/tags"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
)

func TagList(svc tagsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tag service unavailable"))
			return
		}

		list, err := svc.ListTags(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func TagGet(svc tagsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tag service unavailable"))
			return
		}

		tagID, err := pathUUID(r, "tagId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tag, err := svc.GetTag(r.Context(), tagID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tag)
	}
}

// TagCreate registers a new tag; duplicate names answer 409.
func TagCreate(svc tagsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tag service unavailable"))
			return
		}

		var payload createTagRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tag, err := svc.CreateTag(r.Context(), tagsvc.CreateTagInput{Name: payload.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tag)
	}
}

type createTagRequest struct {
	Name string `json:"name" validate:"required"`
}

func TagDelete(svc tagsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tag service unavailable"))
			return
		}

		tagID, err := pathUUID(r, "tagId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTag(r.Context(), tagID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
