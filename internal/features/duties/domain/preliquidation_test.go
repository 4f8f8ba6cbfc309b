package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCustomsValue verifies CIF resolution.
func TestCustomsValue(t *testing.T) {
	t.Run("given CIF wins", func(t *testing.T) {
		req := EstimateRequest{
			CIF: decimal.NewFromInt(12000),
			FOB: decimal.NewFromInt(999),
		}
		cif, err := req.CustomsValue()
		require.NoError(t, err)
		assert.True(t, cif.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("built from FOB plus freight plus insurance", func(t *testing.T) {
		req := EstimateRequest{
			FOB:       decimal.NewFromInt(10000),
			Freight:   decimal.NewFromInt(1500),
			Insurance: decimal.NewFromInt(100),
		}
		cif, err := req.CustomsValue()
		require.NoError(t, err)
		assert.True(t, cif.Equal(decimal.NewFromInt(11600)))
	})

	t.Run("negative input rejected", func(t *testing.T) {
		req := EstimateRequest{FOB: decimal.NewFromInt(-1)}
		_, err := req.CustomsValue()
		assert.ErrorIs(t, err, ErrInvalidValues)
	})

	t.Run("no value at all rejected", func(t *testing.T) {
		_, err := EstimateRequest{}.CustomsValue()
		assert.ErrorIs(t, err, ErrInvalidValues)
	})
}

// TestPreliquidate verifies the SENAE breakdown for a 20% ad-valorem good
// without ICE.
func TestPreliquidate(t *testing.T) {
	cif := decimal.NewFromInt(10000)
	rate := decimal.NewFromFloat(0.20)

	est := Preliquidate("8708.29.00", cif, rate, decimal.Zero)

	assert.True(t, est.AdValorem.Equal(decimal.NewFromInt(2000)), "ad valorem: %s", est.AdValorem)
	assert.True(t, est.FODINFA.Equal(decimal.NewFromInt(50)), "fodinfa: %s", est.FODINFA)
	assert.True(t, est.ICE.IsZero())
	// IVA = 15% of (10000 + 2000 + 50) = 1807.50
	assert.True(t, est.IVA.Equal(decimal.NewFromFloat(1807.50)), "iva: %s", est.IVA)
	assert.True(t, est.Total.Equal(decimal.NewFromFloat(3857.50)), "total: %s", est.Total)
}

// TestPreliquidate_WithICE verifies ICE feeds the IVA base.
func TestPreliquidate_WithICE(t *testing.T) {
	cif := decimal.NewFromInt(1000)
	rate := decimal.Zero
	ice := decimal.NewFromFloat(0.10)

	est := Preliquidate("2203.00.00", cif, rate, ice)

	assert.True(t, est.ICE.Equal(decimal.NewFromInt(100)))
	assert.True(t, est.FODINFA.Equal(decimal.NewFromInt(5)))
	// IVA = 15% of (1000 + 0 + 5 + 100) = 165.75
	assert.True(t, est.IVA.Equal(decimal.NewFromFloat(165.75)), "iva: %s", est.IVA)
}

// TestPreliquidate_RoundsToCents verifies per-line rounding.
func TestPreliquidate_RoundsToCents(t *testing.T) {
	cif := decimal.NewFromFloat(1234.56)
	rate := decimal.NewFromFloat(0.15)

	est := Preliquidate("6402.99.00", cif, rate, decimal.Zero)

	// 1234.56 * 0.15 = 185.184 -> 185.18
	assert.True(t, est.AdValorem.Equal(decimal.NewFromFloat(185.18)), "ad valorem: %s", est.AdValorem)
	// 1234.56 * 0.005 = 6.1728 -> 6.17
	assert.True(t, est.FODINFA.Equal(decimal.NewFromFloat(6.17)), "fodinfa: %s", est.FODINFA)
}
