package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/heencoffee/pos-api/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Publisher pushes realtime events to dashboards.
// Satisfied by *ws.Hub. A nil Publisher disables events.
type Publisher interface {
	Publish(topic, eventType string, payload any)
}

func publish(p Publisher, topic, eventType string, payload any) {
	if p == nil {
		return
	}
	p.Publish(topic, eventType, payload)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// validationErrorResponse is a 400 body naming the offending fields.
type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// fieldErrors maps a request field to its first validation message.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// write sends a 400 and reports true when any field failed.
func (f fieldErrors) write(w http.ResponseWriter) bool {
	if len(f) == 0 {
		return false
	}
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "validation failed", Fields: f})
	return true
}

func internalError(w http.ResponseWriter, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

var errInvalidAmount = errors.New("must be a non-negative number with at most 2 decimals, up to 99999999.99")

// parseAmount parses a non-negative money or stock value with at most two
// decimal places that fits a NUMERIC(10,2) column. Accepts both JSON numbers
// and numeric strings.
func parseAmount(n json.Number) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil || d.IsNegative() || !d.Equal(d.Round(2)) || d.GreaterThan(service.MaxAmount) {
		return pgtype.Numeric{}, errInvalidAmount
	}
	return decimalToNumeric(d), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullableText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

// slugify lowercases name and joins its alphanumeric runs with dashes.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// parsePagination reads limit and offset query params. limit defaults to
// def and is capped at max; offset defaults to 0.
func parsePagination(r *http.Request, def, max int) (int32, int32) {
	limit := def
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > max {
		limit = max
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return int32(limit), int32(offset)
}

const dateLayout = "2006-01-02"

// parseDay parses a YYYY-MM-DD query param as midnight in loc.
func parseDay(r *http.Request, key string, loc *time.Location) (time.Time, bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid %s format, expected YYYY-MM-DD", key)
	}
	return t, true, nil
}

// parseDateRange parses date_from and date_to in loc. Defaults to the last
// defaultDays days including today. The returned end is exclusive (midnight
// after date_to).
func parseDateRange(r *http.Request, loc *time.Location, now time.Time, defaultDays int) (time.Time, time.Time, error) {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	start := today.AddDate(0, 0, -(defaultDays - 1))
	end := today.AddDate(0, 0, 1)

	from, ok, err := parseDay(r, "date_from", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if ok {
		start = from
	}

	to, ok, err := parseDay(r, "date_to", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if ok {
		end = to.AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("date_from must not be after date_to")
	}
	return start, end, nil
}
