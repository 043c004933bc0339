package subsidy

import (
	"context"
	"fmt"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
)

// Scheme is one government support scheme the farmer qualifies for, with
// localized presentation text.
type Scheme struct {
	Name        string `json:"name"`
	Benefit     string `json:"benefit"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}

type schemeText struct {
	pmKisanName string
	pmKisanBen  string
	pmKisanElig string
	smamName    string
	smamBen     string
	smamElig    string
}

var schemeTexts = map[enums.Language]schemeText{
	enums.LanguageEnglish: {
		pmKisanName: "PM-KISAN",
		pmKisanBen:  "₹6,000 / year",
		pmKisanElig: "Pass",
		smamName:    "Sub-Mission on Agri Mechanization",
		smamBen:     "50-80% Subsidy",
		smamElig:    "Pass (Small Farmer)",
	},
	enums.LanguageHindi: {
		pmKisanName: "पीएम-किसान निधि",
		pmKisanBen:  "₹6,000 / वर्ष",
		pmKisanElig: "पात्र",
		smamName:    "कृषि यंत्रीकरण (SMAM)",
		smamBen:     "50-80% सब्सिडी",
		smamElig:    "पात्र (छोटे किसान)",
	},
	enums.LanguageMarathi: {
		pmKisanName: "पीएम-किसान सन्मान निधी",
		pmKisanBen:  "₹6,000 / वर्ष",
		pmKisanElig: "पात्र",
		smamName:    "कृषी यांत्रिकीकरण अभियान",
		smamBen:     "50-80% अनुदान",
		smamElig:    "पात्र (अल्पभूधारक)",
	},
}

// smallFarmerMaxAcres is the SMAM cutoff for small and marginal farmers.
const smallFarmerMaxAcres = 5.0

// Engine evaluates scheme eligibility from declared land holding. Rules
// are pure; the caller records outcomes on the ledger.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Eligible returns every scheme the land holding qualifies for. Landless
// callers get an empty list, not an error; a negative holding is rejected.
func (e *Engine) Eligible(_ context.Context, landSizeAcres float64, lang enums.Language) ([]Scheme, error) {
	if landSizeAcres < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("land size must not be negative, got %v", landSizeAcres))
	}

	text := schemeTexts[lang.OrDefault()]
	schemes := []Scheme{}
	if landSizeAcres > 0 {
		schemes = append(schemes, Scheme{
			Name:        text.pmKisanName,
			Benefit:     text.pmKisanBen,
			Eligibility: text.pmKisanElig,
			Link:        "https://pmkisan.gov.in/",
		})
	}
	if landSizeAcres <= smallFarmerMaxAcres {
		schemes = append(schemes, Scheme{
			Name:        text.smamName,
			Benefit:     text.smamBen,
			Eligibility: text.smamElig,
			Link:        "https://agrimachinery.nic.in/",
		})
	}
	return schemes, nil
}
