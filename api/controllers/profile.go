package controllers

import (
	"net/http"

	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/api/validators"
	"github.com/dotoole/photofolio-backend/internal/profile"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

// ProfileImageGet returns the profile image singleton, or null when unset.
func ProfileImageGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		img, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, img)
	}
}

type profileImageRequest struct {
	Key string `json:"key" validate:"required,min=1"`
	URL string `json:"url" validate:"required,url"`
}

// ProfileImageSet replaces the profile image. The previously stored object is
// removed from storage before the new pointer persists.
func ProfileImageSet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var payload profileImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.Set(r.Context(), payload.Key, payload.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, img)
	}
}
