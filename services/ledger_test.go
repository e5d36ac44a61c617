package services

import (
	"testing"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/stretchr/testify/require"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name           string
		ruleType       string
		notionalValue  float64
		ruleValue      float64
		purchaseAmount float64
		want           int64
	}{
		{"percentage basic", models.RuleTypePercentage, 0, 10, 250, 25},
		{"percentage truncates", models.RuleTypePercentage, 0, 10, 255, 25},
		{"percentage zero amount", models.RuleTypePercentage, 0, 10, 0, 0},
		{"percentage full rate", models.RuleTypePercentage, 0, 100, 333, 333},
		{"purchase value matches percentage arithmetic", models.RuleTypePurchaseValueToPoints, 100, 10, 250, 25},
		{"purchase value zero notional", models.RuleTypePurchaseValueToPoints, 0, 10, 250, 0},
		{"flat ignores amount", models.RuleTypeFlat, 0, 50, 1000, 50},
		{"flat zero amount", models.RuleTypeFlat, 0, 50, 0, 50},
		{"flat truncates fraction", models.RuleTypeFlat, 0, 50.9, 0, 50},
		{"unknown rule type", "mystery", 0, 10, 250, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePoints(tt.ruleType, tt.notionalValue, tt.ruleValue, tt.purchaseAmount)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCalculatePointsMatchesBetweenRuleTypes(t *testing.T) {
	// purchase_value_to_points must keep the same arithmetic as percentage
	// whenever its notional value is positive.
	for _, amount := range []float64{0, 1, 99.99, 250, 1000, 12345.67} {
		pct := CalculatePoints(models.RuleTypePercentage, 0, 7.5, amount)
		pvp := CalculatePoints(models.RuleTypePurchaseValueToPoints, 1, 7.5, amount)
		require.Equal(t, pct, pvp, "amount %v", amount)
	}
}

func TestRequiredPoints(t *testing.T) {
	require.Equal(t, int64(500), RequiredPoints(500, 100), "milestone overrides supplied points")
	require.Equal(t, int64(500), RequiredPoints(500, 0))
	require.Equal(t, int64(100), RequiredPoints(0, 100), "no milestone falls back to supplied points")
	require.Equal(t, int64(0), RequiredPoints(0, 0), "degenerate zero-point redemption is allowed")
}
