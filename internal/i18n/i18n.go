// Package i18n localises report headers using embedded go-i18n message files.
package i18n

import (
	"embed"
	"encoding/json"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message ids for one language.
type Translator struct {
	Lang      string
	localizer *i18n.Localizer
}

// Bundle holds every embedded locale.
type Bundle struct {
	bundle    *i18n.Bundle
	languages []string
}

// LoadBundle parses the embedded locales/active.<lang>.json files.
func LoadBundle() *Bundle {
	log := zap.L().With(zap.String(config.LogKeyComponent, config.CompI18n))

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	b := &Bundle{bundle: bundle}

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		log.Error(config.ErrLocalesAccess, zap.Error(err))
		return b
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.ExtJSON) {
			log.Debug(config.MsgLocaleSkip, zap.String(config.LogKeyFile, name))
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.ExtJSON)
		if langCode == "" {
			log.Warn(config.MsgLocaleBadName, zap.String(config.LogKeyFile, name))
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocalesDir+"/"+name); err != nil {
			log.Error(config.ErrLocaleLoad, zap.String(config.LogKeyFile, name), zap.Error(err))
			continue
		}

		b.languages = append(b.languages, langCode)
		log.Debug(config.MsgLocaleLoaded, zap.String(config.LogKeyLang, langCode))
	}

	return b
}

// Languages lists the language codes that loaded successfully.
func (b *Bundle) Languages() []string {
	return b.languages
}

// Translator returns a translator for lang, falling back to English.
func (b *Bundle) Translator(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Translator{
		Lang:      lang,
		localizer: i18n.NewLocalizer(b.bundle, lang, config.DefaultLanguage),
	}
}

// New loads the embedded bundle and returns a translator for lang.
func New(lang string) *Translator {
	return LoadBundle().Translator(lang)
}

// Msg translates key, returning the key itself when no message exists.
func (t *Translator) Msg(key string) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		zap.L().Debug(config.MsgTransMissing,
			zap.String(config.LogKeyComponent, config.CompI18n),
			zap.String(config.LogKeyKey, key),
			zap.Error(err),
		)
		return key
	}
	return msg
}
