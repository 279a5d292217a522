package services

import (
	"github.com/shopspring/decimal"

	"github.com/HSouheill/storefront_backend/models"
)

var hundred = decimal.NewFromInt(100)

var cent = decimal.New(1, -2)

// SalePrice derives the discounted price, rounded to cents. Any positive
// discount keeps the result strictly below a positive original price.
func SalePrice(originalPrice, discountPercentage float64) float64 {
	orig := decimal.NewFromFloat(originalPrice)
	pct := decimal.NewFromFloat(discountPercentage)
	price := orig.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
	if pct.IsPositive() && orig.IsPositive() && price.GreaterThanOrEqual(orig) {
		price = orig.Sub(cent).Round(2)
		if price.IsNegative() {
			price = decimal.Zero
		}
	}
	f, _ := price.Float64()
	return f
}

// ApplyPricing validates the discount and derives price from originalPrice
// when the listing is on sale.
func ApplyPricing(a *models.Account) error {
	if a.DiscountPercentage < 0 || a.DiscountPercentage > 100 {
		return invalid("discountPercentage must be between 0 and 100")
	}
	if a.Price < 0 || a.OriginalPrice < 0 {
		return invalid("price must not be negative")
	}
	if a.IsOnSale && a.DiscountPercentage > 0 {
		if a.OriginalPrice == 0 {
			a.OriginalPrice = a.Price
		}
		a.Price = SalePrice(a.OriginalPrice, a.DiscountPercentage)
		return nil
	}
	if a.OriginalPrice == 0 {
		a.OriginalPrice = a.Price
	}
	return nil
}

// lineTotal is price × quantity rounded to cents.
func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
