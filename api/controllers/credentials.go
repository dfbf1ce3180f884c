package controllers

import (
	"net/http"

	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/api/validators"
	"github.com/dotoole/photofolio-backend/internal/credentials"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

type credentialRequest struct {
	FileName    string `json:"file_name" validate:"required,min=1"`
	ContentType string `json:"content_type" validate:"required,min=1"`
}

// CredentialsIssue returns a short-lived presigned write URL for one object.
func CredentialsIssue(svc credentials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credential service unavailable"))
			return
		}

		var payload credentialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cred, err := svc.IssueWriteCredential(r.Context(), payload.FileName, payload.ContentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cred)
	}
}
