// Package translate formats user facing messages in the caller's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallback is used when no user locale can be determined.
var fallback = language.AmericanEnglish

var printer = newPrinter()

// newPrinter selects a printer for the user's preferred locales.
func newPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("ls8: locale: %v", err)
	}

	tag := fallback
	if len(locales) != 0 {
		tag = message.MatchLanguage(locales...)
	}

	return message.NewPrinter(tag)
}

// From formats an en-US Sprintf() style key in the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
