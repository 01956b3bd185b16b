package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

const languageKey = "language"

// Language resolves the response language from Accept-Language and stores it
// in the request locals for downstream handlers.
func Language() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(languageKey, model.ParseAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}

// RequestLanguage returns the language stored by the Language middleware,
// or English when the middleware did not run.
func RequestLanguage(c *fiber.Ctx) model.Language {
	if lang, ok := c.Locals(languageKey).(model.Language); ok {
		return lang
	}
	return model.LanguageEnglish
}
