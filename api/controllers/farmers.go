package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishichetan/krishichetan-backend/api/responses"
	"github.com/krishichetan/krishichetan-backend/api/validators"
	"github.com/krishichetan/krishichetan-backend/internal/farmers"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

type registerFarmerRequest struct {
	Phone         string  `json:"phone" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	CropType      string  `json:"crop_type"`
	Location      string  `json:"location"`
	SowingDate    string  `json:"sowing_date"`
	LandSizeAcres float64 `json:"land_size_acres" validate:"gte=0"`
	GrowthStage   string  `json:"growth_stage"`
	SoilType      string  `json:"soil_type"`
}

// RegisterFarmer enrolls a new farmer profile.
func RegisterFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerFarmerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Register(r.Context(), farmers.RegisterInput{
			Phone:         body.Phone,
			Name:          body.Name,
			CropType:      body.CropType,
			Location:      body.Location,
			SowingDate:    body.SowingDate,
			LandSizeAcres: body.LandSizeAcres,
			GrowthStage:   body.GrowthStage,
			SoilType:      body.SoilType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// GetFarmer loads one profile by phone.
func GetFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := svc.GetByPhone(r.Context(), chi.URLParam(r, "phone"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type updateRiskScoreRequest struct {
	RiskScore int `json:"risk_score" validate:"gte=0,lte=100"`
}

// UpdateRiskScore stores a fresh model-predicted risk score for a farmer.
func UpdateRiskScore(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateRiskScoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateRiskScore(r.Context(), chi.URLParam(r, "phone"), body.RiskScore)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
