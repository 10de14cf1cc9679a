// Package i18n looks up the round's user facing strings.
package i18n

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator resolves keys against a single language catalog. Unknown keys
// are used as their own message. Arguments replace each %s in order; no
// other verb is interpreted.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a translator for lang from key to message entries. An
// unparsable language falls back to English.
func New(lang string, entries map[string]string, logger *zap.Logger) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		logger.Warn("unknown language, using english", zap.String("lang", lang), zap.Error(err))
		tag = language.English
	}

	b := catalog.NewBuilder(catalog.Fallback(tag))
	for key, msg := range entries {
		if err := b.SetString(tag, key, escape(msg)); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", key, err)
		}
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

// Trans returns the message for key with args substituted in order.
func (t *Translator) Trans(key string, args ...interface{}) string {
	msg := t.printer.Sprintf(message.Key(key, escape(key)))
	return Substitute(msg, args...)
}

// Substitute replaces the %s placeholders of msg with args, first to first.
// Extra args are dropped and unmatched placeholders kept.
func Substitute(msg string, args ...interface{}) string {
	for _, arg := range args {
		if !strings.Contains(msg, "%s") {
			break
		}
		msg = strings.Replace(msg, "%s", fmt.Sprint(arg), 1)
	}
	return msg
}

// escape keeps the printer from reading verbs in a message.
func escape(msg string) string {
	return strings.ReplaceAll(msg, "%", "%%")
}

// Lang returns the catalog language.
func (t *Translator) Lang() language.Tag {
	return t.tag
}
