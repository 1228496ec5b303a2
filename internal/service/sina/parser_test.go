package sina

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"FundMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// quoteLine builds a 33-field Sina line with the given previous close and current price.
func quoteLine(code, preClose, current string) string {
	fields := make([]string, 33)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = "上证指数"
	fields[1] = "3001.00"
	fields[2] = preClose
	fields[3] = current
	fields[30] = "2024-10-10"
	fields[31] = "15:00:01"
	fields[32] = "00"
	return fmt.Sprintf("var hq_str_%s=\"%s\";\n", code, strings.Join(fields, ","))
}

func gbk(t *testing.T, s string) []byte {
	t.Helper()
	b, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestParseQuote(t *testing.T) {
	now := time.Date(2024, 10, 10, 15, 0, 5, 0, time.UTC)
	s, err := ParseQuote(gbk(t, quoteLine("sh000001", "3000.00", "3045.50")), "sh000001", "上证指数", now)
	require.NoError(t, err)

	assert.Equal(t, "sh000001", s.Code)
	assert.Equal(t, "上证指数", s.Name)
	assert.Equal(t, 3045.5, s.CurrentPrice)
	assert.Equal(t, 3000.0, s.PreClose)
	assert.Equal(t, 45.5, s.ChangeAmount)
	assert.Equal(t, 1.52, s.ChangePercent)
	assert.Equal(t, "2024-10-10", s.QuoteDate)
	assert.Equal(t, "15:00:01", s.QuoteTime)
	assert.Equal(t, now, s.FetchedAt)
}

func TestParseQuoteErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty body", "  \n"},
		{"empty quote", `var hq_str_sh000001="";`},
		{"short quote", `var hq_str_sh000001="上证指数,1,2,3";`},
		{"non-numeric price", quoteLine("sh000001", "3000.00", "--")},
		{"non-numeric close", quoteLine("sh000001", "n/a", "3000.00")},
		{"zero close", quoteLine("sh000001", "0", "3000.00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuote([]byte(tt.raw), "sh000001", "上证指数", time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrParse)
			assert.Equal(t, "parse", models.ErrorKind(err))
		})
	}
}
