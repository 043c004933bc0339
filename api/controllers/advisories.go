package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishichetan/krishichetan-backend/api/responses"
	"github.com/krishichetan/krishichetan-backend/api/validators"
	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

type createAdvisoryRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Officer  string `json:"officer"`
	Kind     string `json:"kind" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Language string `json:"lang"`
}

// CreateAdvisory issues a single pending advisory through the gateway.
func CreateAdvisory(svc *gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createAdvisoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseAdvisoryKind(body.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid advisory kind"))
			return
		}

		record, err := svc.IssueAdvisory(r.Context(), gateway.IssueAdvisoryRequest{
			Subject:  body.Phone,
			Officer:  body.Officer,
			Kind:     kind,
			Message:  body.Message,
			Language: enums.Language(body.Language),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type bulkAdvisoryRequest struct {
	Phones   []string `json:"phones" validate:"required,min=1"`
	Officer  string   `json:"officer"`
	Kind     string   `json:"kind" validate:"required"`
	Message  string   `json:"message" validate:"required"`
	Language string   `json:"lang"`
}

// BulkAdvisories fans one advisory out to many farmers, reporting every
// per-recipient outcome.
func BulkAdvisories(svc *gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bulkAdvisoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseAdvisoryKind(body.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid advisory kind"))
			return
		}

		outcomes, err := svc.IssueBulk(r.Context(), gateway.IssueBulkRequest{
			Subjects: body.Phones,
			Officer:  body.Officer,
			Kind:     kind,
			Message:  body.Message,
			Language: enums.Language(body.Language),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"outcomes": outcomes})
	}
}

type transitionAdvisoryRequest struct {
	Status string `json:"status" validate:"required,oneof=followed ignored"`
}

// TransitionAdvisory resolves a pending advisory to followed or ignored.
func TransitionAdvisory(store *advisory.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := chi.URLParam(r, "phone")
		advisoryID := chi.URLParam(r, "advisoryID")

		var body transitionAdvisoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAdvisoryStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid advisory status"))
			return
		}

		record, err := store.Transition(r.Context(), phone, advisoryID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AdvisoryHistory returns the most recent advisories for a farmer,
// oldest of the window first.
func AdvisoryHistory(store *advisory.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := chi.URLParam(r, "phone")

		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records := store.History(r.Context(), phone, limit)
		responses.WriteSuccess(w, map[string]any{"phone": phone, "advisories": records})
	}
}
