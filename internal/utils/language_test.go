package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "english text", text: "I was charged twice for my subscription", expected: LangEnglish},
		{name: "empty text", text: "", expected: LangEnglish},
		{name: "hebrew text", text: "חויבתי פעמיים על המנוי שלי", expected: LangHebrew},
		{name: "arabic text", text: "تم خصم المبلغ مرتين من حسابي", expected: LangArabic},
		{name: "russian text", text: "С меня дважды списали деньги за подписку", expected: LangRussian},
		{name: "chinese text", text: "我的订阅被重复扣款了", expected: LangChinese},
		{name: "japanese text with kana", text: "サブスクリプションの料金が二重に請求されました", expected: LangJapanese},
		{name: "han plus kana is japanese", text: "請求が二重になっています", expected: LangJapanese},
		{name: "korean text", text: "구독료가 두 번 청구되었습니다", expected: LangKorean},
		{name: "mostly english with a few foreign words", text: "My invoice number is 12345 and the word שלום appears once in this otherwise very long English sentence about billing", expected: LangEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang := DetectLanguage(tt.text)
			assert.Equal(t, tt.expected, lang.Code)
		})
	}
}

func TestDetectLanguage_Confidence(t *testing.T) {
	lang := DetectLanguage("שלום לך")
	assert.Equal(t, LangHebrew, lang.Code)
	assert.Greater(t, lang.Confidence, scriptThreshold)

	lang = DetectLanguage("hello there")
	assert.Equal(t, 0.0, lang.Confidence)
}

func TestGetLanguageInstruction(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{name: "english", code: LangEnglish, expected: "Please respond in English."},
		{name: "hebrew", code: LangHebrew, expected: "Please respond in Hebrew (עברית)."},
		{name: "arabic", code: LangArabic, expected: "Please respond in Arabic (العربية)."},
		{name: "russian", code: LangRussian, expected: "Please respond in Russian (Русский)."},
		{name: "chinese", code: LangChinese, expected: "Please respond in Chinese (中文)."},
		{name: "japanese", code: LangJapanese, expected: "Please respond in Japanese (日本語)."},
		{name: "korean", code: LangKorean, expected: "Please respond in Korean (한국어)."},
		{name: "unknown falls back to english", code: "xx", expected: "Please respond in English."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetLanguageInstruction(Language{Code: tt.code}))
		})
	}
}
