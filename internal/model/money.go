package model

import "github.com/shopspring/decimal"

// Money amounts (hourly rates, total prices) are encoded as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
