package controllers

import (
	"net/http"

	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/internal/images"
	"github.com/dotoole/photofolio-backend/internal/profile"
	"github.com/dotoole/photofolio-backend/pkg/db/models"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

type galleryPayload struct {
	Images       []models.Image        `json:"images"`
	Featured     []models.Image        `json:"featured"`
	ProfileImage *profile.ProfileImage `json:"profile_image"`
	Counts       galleryCounts         `json:"counts"`
}

type galleryCounts struct {
	Total    int `json:"total"`
	Featured int `json:"featured"`
}

// Gallery assembles the homepage payload in one round trip: public images,
// the featured subset, and the profile image.
func Gallery(imageSvc images.Service, profileSvc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if imageSvc == nil || profileSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery services unavailable"))
			return
		}

		publicImages, err := imageSvc.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		featured, err := imageSvc.ListFeatured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profileImage, err := profileSvc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, galleryPayload{
			Images:       publicImages,
			Featured:     featured,
			ProfileImage: profileImage,
			Counts: galleryCounts{
				Total:    len(publicImages),
				Featured: len(featured),
			},
		})
	}
}
