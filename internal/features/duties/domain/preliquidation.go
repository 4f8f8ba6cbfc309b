package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// SENAE rates fixed by regulation. FODINFA applies to every import; IVA is
// the general rate in force since 2024.
var (
	fodinfaRate = decimal.NewFromFloat(0.005)
	ivaRate     = decimal.NewFromFloat(0.15)
)

// ErrInvalidValues indicates a negative or inconsistent cost input.
var ErrInvalidValues = errors.New("invalid customs values")

// EstimateRequest carries the cost inputs for a pre-liquidation. Either CIF
// is given directly or it is built from FOB + freight + insurance.
type EstimateRequest struct {
	// HSCode is the tariff subheading to look up the ad-valorem rate for.
	HSCode string `json:"hs_code" validate:"required"`
	// CIF is the customs value, when already known.
	CIF decimal.Decimal `json:"cif"`
	// FOB, Freight and Insurance build the CIF when it is not given.
	FOB       decimal.Decimal `json:"fob"`
	Freight   decimal.Decimal `json:"freight"`
	Insurance decimal.Decimal `json:"insurance"`
	// ICERate is the special consumption tax rate, zero for most goods.
	ICERate decimal.Decimal `json:"ice_rate"`
}

// Estimate is the pre-liquidation breakdown, all amounts in USD.
type Estimate struct {
	HSCode       string          `json:"hs_code"`
	CIF          decimal.Decimal `json:"cif"`
	AdValoremPct decimal.Decimal `json:"ad_valorem_rate"`
	AdValorem    decimal.Decimal `json:"ad_valorem"`
	FODINFA      decimal.Decimal `json:"fodinfa"`
	ICE          decimal.Decimal `json:"ice"`
	IVA          decimal.Decimal `json:"iva"`
	Total        decimal.Decimal `json:"total"`
}

// CustomsValue resolves the CIF: the given value wins, otherwise
// FOB + freight + insurance.
func (r EstimateRequest) CustomsValue() (decimal.Decimal, error) {
	for _, v := range []decimal.Decimal{r.CIF, r.FOB, r.Freight, r.Insurance, r.ICERate} {
		if v.IsNegative() {
			return decimal.Zero, ErrInvalidValues
		}
	}

	if r.CIF.IsPositive() {
		return r.CIF, nil
	}

	cif := r.FOB.Add(r.Freight).Add(r.Insurance)
	if !cif.IsPositive() {
		return decimal.Zero, ErrInvalidValues
	}
	return cif, nil
}

// Preliquidate computes the SENAE duty breakdown for a customs value and
// an ad-valorem rate. IVA applies over the CIF plus every other tax.
// Amounts are rounded to cents at the end of each line, the way the
// liquidation form shows them.
func Preliquidate(hsCode string, cif, adValoremRate, iceRate decimal.Decimal) Estimate {
	adValorem := cif.Mul(adValoremRate).Round(2)
	fodinfa := cif.Mul(fodinfaRate).Round(2)
	ice := cif.Mul(iceRate).Round(2)

	ivaBase := cif.Add(adValorem).Add(fodinfa).Add(ice)
	iva := ivaBase.Mul(ivaRate).Round(2)

	return Estimate{
		HSCode:       hsCode,
		CIF:          cif.Round(2),
		AdValoremPct: adValoremRate,
		AdValorem:    adValorem,
		FODINFA:      fodinfa,
		ICE:          ice,
		IVA:          iva,
		Total:        adValorem.Add(fodinfa).Add(ice).Add(iva),
	}
}
