// Package messages resolves user-facing strings by key for a locale.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Lookup returns the localized text for key. Unknown keys resolve to the key
// itself.
type Lookup interface {
	String(key string) string
}

// Message keys.
const (
	KeyCardNumberInvalid = "card_number_invalid"
	KeyExpiryInvalid     = "expiry_invalid"
	KeyCvcInvalid        = "cvc_invalid"
	KeyHolderNameInvalid = "holder_name_invalid"

	KeyPaymentInvalidData   = "payment_invalid_data"
	KeyPaymentDeclined      = "payment_declined"
	KeyPaymentInvalidNumber = "payment_invalid_number"
	KeyPaymentExpired       = "payment_expired"
	KeyPaymentInvalidCvc    = "payment_invalid_cvc"
	KeyPaymentProcessing    = "payment_processing_error"
	KeyPaymentGeneric       = "payment_error"
)

var defaultLanguage = language.English

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyCardNumberInvalid:    "Invalid card number",
		KeyExpiryInvalid:        "Invalid expiry date (MM/YY)",
		KeyCvcInvalid:           "CVC must be 3 or 4 digits",
		KeyHolderNameInvalid:    "Enter the name on the card",
		KeyPaymentInvalidData:   "Invalid card data",
		KeyPaymentDeclined:      "Your card was declined",
		KeyPaymentInvalidNumber: "The card number is incorrect",
		KeyPaymentExpired:       "The card has expired",
		KeyPaymentInvalidCvc:    "The security code is incorrect",
		KeyPaymentProcessing:    "The payment could not be processed, please try again",
		KeyPaymentGeneric:       "Payment error, please try again",
	},
	language.Spanish: {
		KeyCardNumberInvalid:    "Número de tarjeta inválido",
		KeyExpiryInvalid:        "Fecha de vencimiento inválida (MM/AA)",
		KeyCvcInvalid:           "El CVC debe tener 3 o 4 dígitos",
		KeyHolderNameInvalid:    "Introduce el nombre de la tarjeta",
		KeyPaymentInvalidData:   "Datos de tarjeta inválidos",
		KeyPaymentDeclined:      "Tu tarjeta fue rechazada",
		KeyPaymentInvalidNumber: "El número de tarjeta es incorrecto",
		KeyPaymentExpired:       "La tarjeta ha caducado",
		KeyPaymentInvalidCvc:    "El código de seguridad es incorrecto",
		KeyPaymentProcessing:    "No se pudo procesar el pago, inténtalo de nuevo",
		KeyPaymentGeneric:       "Error en el pago, inténtalo de nuevo",
	},
}

var (
	cat     = buildCatalog()
	tags    = cat.Languages()
	matcher = language.NewMatcher(tags)
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(defaultLanguage))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("messages: " + err.Error())
			}
		}
	}
	return b
}

type printerLookup struct {
	printer *message.Printer
}

func (l printerLookup) String(key string) string {
	return l.printer.Sprintf(key)
}

// ForLocale returns a Lookup for the closest supported match of a BCP 47
// locale such as "es-MX". Empty or unparsable locales get English.
func ForLocale(locale string) Lookup {
	tag := defaultLanguage
	if locale != "" {
		if requested, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(requested)
			if conf != language.No {
				tag = tags[idx]
			}
		}
	}
	return printerLookup{printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Default is the English lookup.
func Default() Lookup {
	return ForLocale("")
}

// Supported lists the locales that have translations.
func Supported() []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
