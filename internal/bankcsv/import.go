package bankcsv

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"

	apperrors "grana/internal/errors"
	"grana/internal/money"
)

// paymentCategory marks credit-card bill payments in bank statements. Those
// rows settle a previous balance rather than record an expense, so they are
// dropped during import.
const paymentCategory = "payment"

// Columns every statement CSV must carry.
var requiredColumns = []string{"title", "amount", "category"}

// ImportRow is one retained statement row: the title, the amount in cents,
// and the bank's raw category string.
type ImportRow struct {
	Title    string
	Amount   int64
	Category string
}

// DecodeRows decodes a base64-wrapped CSV payload into statement rows,
// preserving input order and skipping credit-card payment rows.
//
// Failure modes are all-or-nothing: a payload that is not valid base64 or
// not parseable CSV fails with MALFORMED_PAYLOAD, a header missing a
// required column fails with MISSING_COLUMN, and any retained row with a
// non-numeric amount aborts the whole batch with INVALID_AMOUNT.
func DecodeRows(csvBase64 string) ([]ImportRow, error) {
	raw, err := base64.StdEncoding.DecodeString(csvBase64)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}
	if len(records) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMalformedPayload, "CSV has no header row")
	}

	cols, err := indexColumns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []ImportRow
	for i, record := range records[1:] {
		category := record[cols["category"]]
		if category == paymentCategory {
			continue
		}

		amount, err := money.ParseCents(record[cols["amount"]])
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount,
				fmt.Sprintf("row %d has a non-numeric amount %q", i+1, record[cols["amount"]]))
		}

		rows = append(rows, ImportRow{
			Title:    record[cols["title"]],
			Amount:   amount,
			Category: category,
		})
	}

	return rows, nil
}

// ImportDescription builds the description stamped on every imported
// transaction, e.g. "Imported by Nubank".
func ImportDescription(bankName string) string {
	return "Imported by " + capitalize(bankName)
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrMissingColumn,
				fmt.Sprintf("CSV is missing required column %q", required))
		}
	}
	return cols, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
