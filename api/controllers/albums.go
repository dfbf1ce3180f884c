package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotoole/photofolio-backend/api/middleware"
	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/api/validators"
	"github.com/dotoole/photofolio-backend/internal/albums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

type albumRequest struct {
	PublicID    *string `json:"public_id,omitempty"`
	Title       string  `json:"title" validate:"required,min=1"`
	Description *string `json:"description,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	Visibility  string  `json:"visibility,omitempty"`
}

func (req albumRequest) toFields() albums.Fields {
	return albums.Fields{
		PublicID:    req.PublicID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tag:         req.Tag,
		Visibility:  req.Visibility,
	}
}

// AlbumsList returns every album for the console.
func AlbumsList(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AlbumCreate(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		var payload albumRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), payload.toFields())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func AlbumUpdate(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload albumRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, payload.toFields())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AlbumDelete removes the album and its membership rows. Member images stay.
func AlbumDelete(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

type albumAssignRequest struct {
	AlbumID  int64   `json:"album_id" validate:"required,gt=0"`
	ImageIDs []int64 `json:"image_ids" validate:"required,min=1,dive,gt=0"`
}

// AlbumAssign adds images to an album. Already-assigned pairs are no-ops.
func AlbumAssign(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		var payload albumAssignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignImages(r.Context(), payload.AlbumID, payload.ImageIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// AlbumPublicView returns an album with its member images. Members are
// visibility-filtered for anonymous callers; the console sees everything.
func AlbumPublicView(svc albums.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "album service unavailable"))
			return
		}

		publicID := strings.TrimSpace(chi.URLParam(r, "publicId"))
		if publicID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "public id is required"))
			return
		}

		view, err := svc.GetPublicView(r.Context(), publicID, middleware.IsAdmin(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
