package enums

// Language selects the localization of advisory and scheme text.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageMarathi Language = "mr"
)

// IsValid reports whether the value matches a supported language.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageMarathi:
		return true
	}
	return false
}

// OrDefault falls back to English for unsupported values, matching the
// behavior callers expect from localized lookup tables.
func (l Language) OrDefault() Language {
	if l.IsValid() {
		return l
	}
	return LanguageEnglish
}
