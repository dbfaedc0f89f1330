package tool

import (
	"context"
	"encoding/json"
	"fmt"
)

// RateSheet prices a loan scenario from an in-memory rate sheet with
// FICO and LTV adjustments.
type RateSheet struct {
	base map[string]float64
}

// NewRateSheet creates the getRateSheet tool with current base pricing.
func NewRateSheet() *RateSheet {
	return &RateSheet{
		base: map[string]float64{
			"30yr_fixed": 6.25,
			"15yr_fixed": 5.60,
			"5_1_arm":    5.95,
			"fha_30":     6.05,
			"jumbo_30":   6.55,
		},
	}
}

func (t *RateSheet) Schema() Schema {
	return Schema{
		Name:        "getRateSheet",
		Description: "Fetch the latest pricing for a loan scenario.",
		Parameters: map[string]Param{
			"loanType": {Type: "string"},
			"fico":     {Type: "integer"},
			"ltv":      {Type: "number"},
		},
		Required: []string{"loanType", "fico", "ltv"},
	}
}

func (t *RateSheet) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		LoanType string  `json:"loanType"`
		FICO     int     `json:"fico"`
		LTV      float64 `json:"ltv"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	base, ok := t.base[params.LoanType]
	if !ok {
		return "", fmt.Errorf("no pricing for loan type %q", params.LoanType)
	}
	if params.LTV <= 0 || params.LTV > 1 {
		return "", fmt.Errorf("ltv %.2f out of range (0, 1]", params.LTV)
	}

	rate := base + ficoAdjustment(params.FICO) + ltvAdjustment(params.LTV)
	points := 0.2
	if params.LTV > 0.9 {
		points += 0.3
	}

	return fmt.Sprintf("%s | FICO %d | LTV %.0f%% => %.3f%% / %.1f pts",
		params.LoanType, params.FICO, params.LTV*100, rate, points), nil
}

func ficoAdjustment(fico int) float64 {
	switch {
	case fico < 680:
		return 0.500
	case fico < 740:
		return 0.250
	case fico >= 780:
		return -0.125
	default:
		return 0
	}
}

func ltvAdjustment(ltv float64) float64 {
	switch {
	case ltv > 0.9:
		return 0.375
	case ltv > 0.8:
		return 0.125
	default:
		return 0
	}
}
