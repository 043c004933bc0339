package officer

import (
	"context"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
)

// ZoneAlert is a localized field-zone risk notice for the officer
// dashboard.
type ZoneAlert struct {
	Zone       string `json:"zone"`
	Risk       string `json:"risk"`
	Prediction string `json:"prediction"`
}

var zoneAlerts = map[enums.Language][]ZoneAlert{
	enums.LanguageEnglish: {
		{Zone: "Zone A (North)", Risk: "High", Prediction: "Fungal Blight likely in 48 hrs."},
		{Zone: "Zone B (West)", Risk: "Low", Prediction: "Conditions stable."},
	},
	enums.LanguageHindi: {
		{Zone: "जोन ए (उत्तर)", Risk: "उच्च", Prediction: "48 घंटे में फंगल ब्लाइट की संभावना।"},
		{Zone: "जोन बी (पश्चिम)", Risk: "कम", Prediction: "स्थिति सामान्य है।"},
	},
	enums.LanguageMarathi: {
		{Zone: "झोन ए (उत्तर)", Risk: "जास्त", Prediction: "४८ तासांत करपा रोगाची शक्यता."},
		{Zone: "झोन बी (पश्चिम)", Risk: "कमी", Prediction: "परिस्थिती सामान्य आहे."},
	},
}

// Alerts returns the zone risk notices in the requested language, falling
// back to English.
func (s *service) Alerts(_ context.Context, lang enums.Language) []ZoneAlert {
	alerts := zoneAlerts[lang.OrDefault()]
	out := make([]ZoneAlert, len(alerts))
	copy(out, alerts)
	return out
}
