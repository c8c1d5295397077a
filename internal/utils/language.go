// Package utils holds small helpers shared across the service.
package utils

import "unicode"

// Language codes
const (
	LangEnglish  = "en"
	LangHebrew   = "he"
	LangArabic   = "ar"
	LangRussian  = "ru"
	LangChinese  = "zh"
	LangJapanese = "ja"
	LangKorean   = "ko"
)

// Language represents a detected language
type Language struct {
	Code       string
	Name       string
	Confidence float64
}

// script threshold: at least 10% of runes must belong to the script
const scriptThreshold = 0.1

// kana threshold distinguishing Japanese from Chinese within Han text
const kanaThreshold = 0.05

var scriptTables = []struct {
	code  string
	name  string
	table *unicode.RangeTable
}{
	{LangHebrew, "Hebrew", unicode.Hebrew},
	{LangArabic, "Arabic", unicode.Arabic},
	{LangRussian, "Russian", unicode.Cyrillic},
	{LangChinese, "Chinese", unicode.Han},
	{LangKorean, "Korean", unicode.Hangul},
}

// DetectLanguage guesses the language of the text from its dominant
// script. Latin-script languages all come back as English; that is good
// enough to pick the reply-language instruction.
func DetectLanguage(text string) Language {
	runes := []rune(text)
	if len(runes) == 0 {
		return Language{Code: LangEnglish, Name: "English", Confidence: 0.0}
	}

	counts := make(map[string]int, len(scriptTables))
	kana := 0
	for _, r := range runes {
		for _, s := range scriptTables {
			if unicode.Is(s.table, r) {
				counts[s.code]++
			}
		}
		if unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			kana++
		}
	}

	best := Language{Code: LangEnglish, Name: "English", Confidence: 0.0}
	for _, s := range scriptTables {
		ratio := float64(counts[s.code]) / float64(len(runes))
		if ratio > scriptThreshold && ratio > best.Confidence {
			best = Language{Code: s.code, Name: s.name, Confidence: ratio}
		}
	}

	// Han characters alone cannot separate Chinese from Japanese;
	// any meaningful amount of kana tips it to Japanese.
	if kanaRatio := float64(kana) / float64(len(runes)); kanaRatio > kanaThreshold {
		best = Language{Code: LangJapanese, Name: "Japanese", Confidence: best.Confidence + kanaRatio}
	}

	return best
}

// GetLanguageInstruction returns a reply-language instruction for the AI
// based on the detected language.
func GetLanguageInstruction(lang Language) string {
	switch lang.Code {
	case LangHebrew:
		return "Please respond in Hebrew (עברית)."
	case LangArabic:
		return "Please respond in Arabic (العربية)."
	case LangRussian:
		return "Please respond in Russian (Русский)."
	case LangChinese:
		return "Please respond in Chinese (中文)."
	case LangJapanese:
		return "Please respond in Japanese (日本語)."
	case LangKorean:
		return "Please respond in Korean (한국어)."
	default:
		return "Please respond in English."
	}
}
