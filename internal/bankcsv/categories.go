// Package bankcsv decodes bank-statement CSV payloads into transaction
// drafts and encodes transactions back into transportable CSV. Payloads are
// base64-wrapped UTF-8 CSV text on the wire.
package bankcsv

// fallbackTagName is used for any bank category the table does not know.
const fallbackTagName = "Outros"

// nubankCategories maps Nubank's statement category vocabulary to internal
// tag names. Matching is exact and case-sensitive; "Supermercado" or a
// trailing space falls through to the fallback. That is a known limitation
// of the bank's vocabulary contract, not something to normalize away here.
var nubankCategories = map[string]string{
	"supermercado": "Mercado",
	"restaurante":  "Restaurante",
	"casa":         "Casa",
	"saúde":        "Academia e Saúde",
	"transporte":   "Transporte",
	"lazer":        "Lazer e Entretenimento",
}

// MapCategory resolves a bank's free-text category to an internal tag name,
// falling back to "Outros" for anything unrecognized.
func MapCategory(externalCategory string) string {
	if name, ok := nubankCategories[externalCategory]; ok {
		return name
	}
	return fallbackTagName
}
