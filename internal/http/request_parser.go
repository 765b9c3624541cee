package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidBody = errors.New("invalid request body")
	errInvalidPage = errors.New("invalid page")
)

// decodeTransactionInput reads a JSON transaction body. A non-numeric
// amount yields core.ErrInvalidAmount; any other malformed body yields
// errInvalidBody.
func decodeTransactionInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, error) {
	var in core.TransactionInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return in, core.ErrInvalidAmount
		}
		if errors.Is(err, io.EOF) {
			// An empty body is a request with every field missing.
			return in, nil
		}
		return in, errInvalidBody
	}
	in.Date = sanitizeInput(in.Date)
	in.Description = sanitizeInput(in.Description)
	in.Category = sanitizeInput(in.Category)
	in.Type = core.TxType(sanitizeInput(string(in.Type)))
	return in, nil
}

// parseID reads the {id} path value. ok is false for anything that is not
// a base-10 integer; such ids match no row.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	return id, err == nil
}

// parseFilter builds a ledger filter from query parameters.
func parseFilter(q url.Values) (ledger.Filter, error) {
	mode, err := ledger.ParseMode(q.Get("mode"))
	if err != nil {
		return ledger.Filter{}, err
	}
	return ledger.Filter{
		Mode:        mode,
		Search:      strings.TrimSpace(q.Get("search")),
		Date:        strings.TrimSpace(q.Get("date")),
		Month:       strings.TrimSpace(q.Get("month")),
		Donor:       strings.TrimSpace(q.Get("donor")),
		Description: strings.TrimSpace(q.Get("description")),
		Category:    strings.TrimSpace(q.Get("category")),
	}, nil
}

// parsePage reads the 1-based page number; absent means 1.
func parsePage(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("page"))
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 0, errInvalidPage
	}
	return page, nil
}

// sanitizeInput strips control characters other than tab and line breaks.
// Whitespace is kept: a blank but present field still counts as present.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
