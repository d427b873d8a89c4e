// Package i18n localizes API-facing messages. English and Korean locales
// are embedded; unknown languages fall back to English.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// langContextKey stores the resolved request language in the gin context.
const langContextKey = "i18n_lang"

var bundle *goi18n.Bundle

// Init loads the embedded locale files. Call once at startup.
func Init() error {
	b := goi18n.NewBundle(language.AmericanEnglish)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}
	for _, entry := range entries {
		if _, err := b.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return fmt.Errorf("failed to load locale %s: %w", entry.Name(), err)
		}
	}

	bundle = b
	return nil
}

// Middleware resolves the request language from Accept-Language.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langContextKey, c.GetHeader("Accept-Language"))
		c.Next()
	}
}

// Lang returns the request language stored by Middleware.
func Lang(c *gin.Context) string {
	return c.GetString(langContextKey)
}

// Message localizes a message ID for the given language tag, falling back
// to the default when the ID or language is unknown.
func Message(lang, messageID, fallback string) string {
	if bundle == nil {
		return fallback
	}

	localizer := goi18n.NewLocalizer(bundle, lang, "en-US")
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
