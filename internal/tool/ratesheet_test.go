package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(dir, fileID string) (string, error) {
	body, err := os.ReadFile(filepath.Join(dir, fileID+".txt"))
	return string(body), err
}

func TestRateSheetPricing(t *testing.T) {
	rs := NewRateSheet()

	out, err := rs.Execute(context.Background(),
		json.RawMessage(`{"loanType":"30yr_fixed","fico":740,"ltv":0.8}`))
	require.NoError(t, err)
	// 740 FICO and 80% LTV take the base rate with no adjustments.
	assert.Equal(t, "30yr_fixed | FICO 740 | LTV 80% => 6.250% / 0.2 pts", out)
}

func TestRateSheetAdjustments(t *testing.T) {
	rs := NewRateSheet()

	out, err := rs.Execute(context.Background(),
		json.RawMessage(`{"loanType":"30yr_fixed","fico":660,"ltv":0.95}`))
	require.NoError(t, err)
	assert.Contains(t, out, "7.125%")
	assert.Contains(t, out, "0.5 pts")
}

func TestRateSheetUnknownLoanType(t *testing.T) {
	rs := NewRateSheet()

	_, err := rs.Execute(context.Background(),
		json.RawMessage(`{"loanType":"balloon_7","fico":700,"ltv":0.8}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balloon_7")
}

func TestLoanDocGeneratesFile(t *testing.T) {
	dir := t.TempDir()
	ld := NewLoanDoc(dir)

	out, err := ld.Execute(context.Background(),
		json.RawMessage(`{"borrowerId":"b-123","templateId":"rate_lock"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "file_")

	body, err := readDoc(dir, out)
	require.NoError(t, err)
	assert.Contains(t, body, "b-123")
	assert.Contains(t, body, "RATE LOCK")
}

func TestLoanDocUnknownTemplate(t *testing.T) {
	ld := NewLoanDoc(t.TempDir())

	_, err := ld.Execute(context.Background(),
		json.RawMessage(`{"borrowerId":"b-123","templateId":"nope"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}
