package metadata

import "unicode"

// Language codes guessed from script
const (
	LanguageEnglish  = "EN"
	LanguageChinese  = "ZH"
	LanguageJapanese = "JA"
	LanguageKorean   = "KO"
	LanguageThai     = "TH"
	LanguageArabic   = "AR"
	LanguageRussian  = "RU"
)

// GuessLanguage infers a language from the Unicode scripts present in text.
// Kana wins over Han because Japanese titles mix both.
func GuessLanguage(text string) string {
	var han, hangul, thai, arabic, cyrillic bool

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			return LanguageJapanese
		case unicode.Is(unicode.Hangul, r):
			hangul = true
		case unicode.Is(unicode.Han, r):
			han = true
		case unicode.Is(unicode.Thai, r):
			thai = true
		case unicode.Is(unicode.Arabic, r):
			arabic = true
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic = true
		}
	}

	switch {
	case hangul:
		return LanguageKorean
	case han:
		return LanguageChinese
	case thai:
		return LanguageThai
	case arabic:
		return LanguageArabic
	case cyrillic:
		return LanguageRussian
	default:
		return LanguageEnglish
	}
}
