// Package period resolves "YYYY-MM" tokens into inclusive calendar date
// ranges and display labels.
package period

import (
	"regexp"
	"strconv"
	"time"

	apperrors "grana/internal/errors"
)

// yearMonthPattern is the only accepted period format.
var yearMonthPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// monthNames holds the Portuguese month names used for display labels.
// A static table keeps labels deterministic regardless of host locale.
var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Range is an inclusive calendar date range covering one month, with a
// human-readable label such as "Março 2024".
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// Resolve converts a strict "YYYY-MM" token into the first and last day of
// that month and its display label. It is pure: the same input always yields
// the same Range. Any other input format fails with ErrInvalidPeriod.
func Resolve(yearMonth string) (Range, error) {
	m := yearMonthPattern.FindStringSubmatch(yearMonth)
	if m == nil {
		return Range{}, apperrors.ErrInvalidPeriod
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	return Range{
		Start: start,
		End:   end,
		Label: monthNames[month-1] + " " + m[1],
	}, nil
}
