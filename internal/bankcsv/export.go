package bankcsv

import (
	"encoding/base64"
	"encoding/csv"
	"strings"
	"time"

	"grana/internal/models"
	"grana/internal/money"
)

// ExportHeader is the literal header line of exported CSVs.
const ExportHeader = "Nome, Valor, Descricao, Data, Tipo, Categoria"

// EncodeExport serializes transactions into CSV text and wraps it in base64
// for transport. One row per transaction, in input order: name, value as a
// decimal string, description, ISO date, type literal, and the tag's display
// name. A transaction without a tag gets a blank category cell; that is
// never an error.
func EncodeExport(transactions []models.Transaction) string {
	var sb strings.Builder
	sb.WriteString(ExportHeader)
	sb.WriteByte('\n')

	w := csv.NewWriter(&sb)
	for _, tx := range transactions {
		tagName := ""
		if tx.Tag != nil {
			tagName = tx.Tag.Name
		}
		// Write never fails on a strings.Builder.
		_ = w.Write([]string{
			tx.Name,
			money.FormatCents(tx.Value),
			tx.Description,
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			tagName,
		})
	}
	w.Flush()

	return base64.StdEncoding.EncodeToString([]byte(sb.String()))
}
