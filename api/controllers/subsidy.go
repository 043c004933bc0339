package controllers

import (
	"net/http"

	"github.com/krishichetan/krishichetan-backend/api/responses"
	"github.com/krishichetan/krishichetan-backend/api/validators"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

type checkSubsidyRequest struct {
	Phone         string  `json:"phone" validate:"required"`
	Officer       string  `json:"officer"`
	LandSizeAcres float64 `json:"land_size_acres" validate:"gte=0"`
	Language      string  `json:"lang"`
}

// CheckSubsidy evaluates scheme eligibility and records eligible outcomes
// on the integrity ledger.
func CheckSubsidy(svc *gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkSubsidyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CheckSubsidy(r.Context(), gateway.CheckSubsidyRequest{
			Subject:       body.Phone,
			Officer:       body.Officer,
			LandSizeAcres: body.LandSizeAcres,
			Language:      enums.Language(body.Language),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
