package txtt

import (
	"embed"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

// Embedded translation catalogues for month and day names.
var metaCatalogues = []string{
	"locales/active.en.toml",
	"locales/active.de.toml",
	"locales/active.fr.toml",
}

// Message ID prefixes inside the catalogues
const (
	messagePrefixMonth = "Month"
	messagePrefixDay   = "Day"
)

// MetaTranslator localizes the month and day names produced by meta-constants.
// Locales without a catalogue fall back to English.
type MetaTranslator struct {
	bundle *i18n.Bundle
	logger *zap.Logger
}

// NewMetaTranslator builds a translator from the embedded catalogues.
func NewMetaTranslator(logger *zap.Logger) (*MetaTranslator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range metaCatalogues {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, err
		}
		logger.Debug(LogMsgTranslatorLoad, zap.String(LogFieldFile, file))
	}

	return &MetaTranslator{
		bundle: bundle,
		logger: logger,
	}, nil
}

// MustNewMetaTranslator is like NewMetaTranslator but panics on error.
func MustNewMetaTranslator(logger *zap.Logger) *MetaTranslator {
	t, err := NewMetaTranslator(logger)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthName returns the localized full name of a month.
func (t *MetaTranslator) MonthName(locale language.Tag, month time.Month) string {
	return t.localize(locale, messagePrefixMonth+month.String(), month.String())
}

// DayName returns the localized full name of a weekday.
func (t *MetaTranslator) DayName(locale language.Tag, day time.Weekday) string {
	return t.localize(locale, messagePrefixDay+day.String(), day.String())
}

func (t *MetaTranslator) localize(locale language.Tag, messageID, fallback string) string {
	if t == nil || t.bundle == nil {
		return fallback
	}
	localizer := i18n.NewLocalizer(t.bundle, locale.String(), language.English.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		t.logger.Debug(LogMsgTranslatorError,
			zap.String(LogFieldIdentifier, messageID),
			zap.String(LogFieldLocale, locale.String()),
			zap.Error(err),
		)
		return fallback
	}
	return msg
}
