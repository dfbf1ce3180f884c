package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotoole/photofolio-backend/api/middleware"
	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/api/validators"
	"github.com/dotoole/photofolio-backend/internal/images"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

// ImagesList returns every record for the console and public records for
// everyone else.
func ImagesList(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		if middleware.IsAdmin(r.Context()) {
			list, err := svc.ListAll(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
			return
		}

		list, err := svc.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ImageGet returns one record by public id. Private records are only visible
// to the console; unlisted records are readable by anyone holding the link.
func ImageGet(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		publicID := strings.TrimSpace(chi.URLParam(r, "publicId"))
		if publicID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "public id is required"))
			return
		}

		row, err := svc.GetByPublicID(r.Context(), publicID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if row.Visibility == enums.VisibilityPrivate && !middleware.IsAdmin(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "image not found"))
			return
		}

		responses.WriteSuccess(w, row)
	}
}

type imageRecordRequest struct {
	Key           string  `json:"key" validate:"required"`
	URL           string  `json:"url" validate:"required,url"`
	ThumbKey      *string `json:"thumb_key,omitempty"`
	ThumbURL      *string `json:"thumb_url,omitempty"`
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Tag           *string `json:"tag,omitempty"`
	Location      *string `json:"location,omitempty"`
	ExifMake      *string `json:"exif_make,omitempty"`
	ExifModel     *string `json:"exif_model,omitempty"`
	ExifLens      *string `json:"exif_lens,omitempty"`
	ExifFNumber   *string `json:"exif_fnumber,omitempty"`
	ExifExposure  *string `json:"exif_exposure,omitempty"`
	ExifISO       *string `json:"exif_iso,omitempty"`
	ExifFocal     *string `json:"exif_focal,omitempty"`
	ExifTakenAt   *string `json:"exif_taken_at,omitempty"`
	ExifLat       *string `json:"exif_lat,omitempty"`
	ExifLng       *string `json:"exif_lng,omitempty"`
	Featured      bool    `json:"featured"`
	Visibility    string  `json:"visibility,omitempty"`
	AlbumPublicID *string `json:"album_id,omitempty"`
}

func (req imageRecordRequest) toInput() images.InsertInput {
	return images.InsertInput{
		StorageKey:    req.Key,
		URL:           req.URL,
		ThumbKey:      req.ThumbKey,
		ThumbURL:      req.ThumbURL,
		Fields:        req.toFields(),
		AlbumPublicID: req.AlbumPublicID,
	}
}

func (req imageRecordRequest) toFields() images.Fields {
	return images.Fields{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		Location:    req.Location,
		Exif: images.ExifFields{
			Make:     req.ExifMake,
			Model:    req.ExifModel,
			Lens:     req.ExifLens,
			FNumber:  req.ExifFNumber,
			Exposure: req.ExifExposure,
			ISO:      req.ExifISO,
			Focal:    req.ExifFocal,
			TakenAt:  req.ExifTakenAt,
			Lat:      req.ExifLat,
			Lng:      req.ExifLng,
		},
		Featured:   req.Featured,
		Visibility: req.Visibility,
	}
}

// ImageRecord commits metadata for an object already uploaded to storage.
func ImageRecord(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		var payload imageRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Insert(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

type imageUpdateRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Tag          *string `json:"tag,omitempty"`
	Location     *string `json:"location,omitempty"`
	ExifMake     *string `json:"exif_make,omitempty"`
	ExifModel    *string `json:"exif_model,omitempty"`
	ExifLens     *string `json:"exif_lens,omitempty"`
	ExifFNumber  *string `json:"exif_fnumber,omitempty"`
	ExifExposure *string `json:"exif_exposure,omitempty"`
	ExifISO      *string `json:"exif_iso,omitempty"`
	ExifFocal    *string `json:"exif_focal,omitempty"`
	ExifTakenAt  *string `json:"exif_taken_at,omitempty"`
	ExifLat      *string `json:"exif_lat,omitempty"`
	ExifLng      *string `json:"exif_lng,omitempty"`
	Featured     bool    `json:"featured"`
	Visibility   string  `json:"visibility,omitempty"`
}

func (req imageUpdateRequest) toFields() images.Fields {
	return images.Fields{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		Location:    req.Location,
		Exif: images.ExifFields{
			Make:     req.ExifMake,
			Model:    req.ExifModel,
			Lens:     req.ExifLens,
			FNumber:  req.ExifFNumber,
			Exposure: req.ExifExposure,
			ISO:      req.ExifISO,
			Focal:    req.ExifFocal,
			TakenAt:  req.ExifTakenAt,
			Lat:      req.ExifLat,
			Lng:      req.ExifLng,
		},
		Featured:   req.Featured,
		Visibility: req.Visibility,
	}
}

// ImageUpdate replaces the full editable surface of a record. Fields omitted
// from the payload are cleared, not preserved.
func ImageUpdate(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload imageUpdateRequest
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

// ImageDelete removes the stored objects and the record.
func ImageDelete(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
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

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}
