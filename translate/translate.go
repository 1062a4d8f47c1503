// Package translate formats user-facing messages for the current locale.
package translate

import (
	"fmt"

	"github.com/jeandeaual/go-locale"
	log "github.com/sirupsen/logrus"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Warnf("translate: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
//
// Integer arguments are rendered with the locale's digit grouping, so
// From("%d", 1234567) yields "1,234,567" under en-US.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Hex formats an address as 0x-prefixed hexadecimal, without digit grouping.
func Hex[T ~uint8 | ~uint16 | ~uint32 | ~uint64](value T) string {
	return fmt.Sprintf("%#x", uint64(value))
}
