package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishichetan/krishichetan-backend/api/responses"
	"github.com/krishichetan/krishichetan-backend/api/validators"
	"github.com/krishichetan/krishichetan-backend/internal/analytics"
	"github.com/krishichetan/krishichetan-backend/internal/officer"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

type submitRecommendationRequest struct {
	Phone  string `json:"phone" validate:"required"`
	Source string `json:"source"`
	Text   string `json:"text" validate:"required"`
}

// SubmitRecommendation queues a machine-generated recommendation for
// officer review.
func SubmitRecommendation(svc officer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body submitRecommendationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec, err := svc.Submit(r.Context(), officer.SubmitInput{
			Farmer: body.Phone,
			Source: body.Source,
			Text:   body.Text,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}

// PendingRecommendations lists everything still waiting for sign-off.
func PendingRecommendations(svc officer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.Pending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"recommendations": recs})
	}
}

type validateRecommendationRequest struct {
	Officer  string `json:"officer" validate:"required"`
	Text     string `json:"text"`
	Kind     string `json:"kind" validate:"required"`
	Language string `json:"lang"`
}

// ValidateRecommendation signs a recommendation off, records the sign-off
// on the ledger, and relays the advisory to the farmer.
func ValidateRecommendation(svc officer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body validateRecommendationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseAdvisoryKind(body.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid advisory kind"))
			return
		}

		result, err := svc.Validate(r.Context(), officer.ValidateInput{
			RecommendationID: chi.URLParam(r, "recID"),
			Officer:          body.Officer,
			Text:             body.Text,
			Kind:             kind,
			Language:         enums.Language(body.Language),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PriorityList ranks the farmers an officer should visit first.
func PriorityList(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Prioritize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"priority_list": entries})
	}
}

// AdoptionRate reports aggregate advisory outcomes.
func AdoptionRate(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.AdoptionRate(r.Context()))
	}
}

// CropPatterns breaks the farmer base down by crop.
func CropPatterns(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shares, err := svc.CropDistribution(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"crops": shares})
	}
}

// ZoneAlerts returns localized field-zone risk notices.
func ZoneAlerts(svc officer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := validators.ParseQueryLanguage(r)
		responses.WriteSuccess(w, map[string]any{"alerts": svc.Alerts(r.Context(), lang)})
	}
}
