package model

import "strings"

// Language is a supported response language.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// UnknownStoreName is shown when a store name has no usable variant.
const UnknownStoreName = "Unknown Store"

// ParseAcceptLanguage resolves an Accept-Language header to a supported language.
// Only the first tag is considered; anything that is not Arabic is English.
func ParseAcceptLanguage(header string) Language {
	header = strings.TrimSpace(header)
	if header == "" {
		return LanguageEnglish
	}
	tag, _, _ := strings.Cut(header, ",")
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(tag, string(LanguageArabic)) {
		return LanguageArabic
	}
	return LanguageEnglish
}

// LocalizedText is a bilingual value keyed by language code, as stored in JSONB.
type LocalizedText map[string]string

// Pick returns the variant for lang, then English, then UnknownStoreName.
// Blank variants count as missing.
func (t LocalizedText) Pick(lang Language) string {
	if v := strings.TrimSpace(t[string(lang)]); v != "" {
		return t[string(lang)]
	}
	if v := strings.TrimSpace(t[string(LanguageEnglish)]); v != "" {
		return t[string(LanguageEnglish)]
	}
	return UnknownStoreName
}
