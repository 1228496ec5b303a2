package sina

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"FundMonitor/internal/domain/models"

	"golang.org/x/text/encoding/simplifiedchinese"
)

const (
	minFields     = 32
	fieldPreClose = 2
	fieldCurrent  = 3
	fieldDate     = 30
	fieldTime     = 31
)

// ParseQuote normalizes one hq.sinajs.cn line of the form
// var hq_str_<code>="f0,f1,...";
func ParseQuote(raw []byte, code, name string, now time.Time) (models.IndexSnapshot, error) {
	text := strings.TrimSpace(decode(raw))
	if text == "" {
		return models.IndexSnapshot{}, parseErr(code, "empty body", nil)
	}

	if i := strings.LastIndex(text, `="`); i >= 0 {
		text = text[i+2:]
	}
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `";`))
	fields := strings.Split(text, ",")
	if len(fields) < minFields {
		return models.IndexSnapshot{}, parseErr(code, "short quote: "+strconv.Itoa(len(fields))+" fields", nil)
	}

	current, err := strconv.ParseFloat(strings.TrimSpace(fields[fieldCurrent]), 64)
	if err != nil {
		return models.IndexSnapshot{}, parseErr(code, "current price", err)
	}
	preClose, err := strconv.ParseFloat(strings.TrimSpace(fields[fieldPreClose]), 64)
	if err != nil {
		return models.IndexSnapshot{}, parseErr(code, "previous close", err)
	}

	s, err := models.NewIndexSnapshot(code, name, current, preClose, now)
	if err != nil {
		return models.IndexSnapshot{}, parseErr(code, "invalid quote", err)
	}
	s.QuoteDate = strings.TrimSpace(fields[fieldDate])
	s.QuoteTime = strings.TrimSpace(fields[fieldTime])
	return s, nil
}

// decode converts the GB18030 body to UTF-8, falling back to the raw bytes.
func decode(raw []byte) string {
	out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, nil))
	}
	return string(out)
}

func parseErr(code, reason string, err error) error {
	return &models.ParseError{Source: Source, Identity: code, Reason: reason, Err: err}
}
