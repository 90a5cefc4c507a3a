package cardform

import "strconv"

// Brand identifies the card network from the leading digits of the number.
type Brand string

const (
	BrandUnknown    Brand = "unknown"
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandDiners     Brand = "diners"
	BrandJCB        Brand = "jcb"
)

type brandRange struct {
	prefixLen int
	low, high int
	brand     Brand
}

// Ordered so that longer, more specific prefixes win.
var brandRanges = []brandRange{
	{prefixLen: 4, low: 2221, high: 2720, brand: BrandMastercard},
	{prefixLen: 4, low: 6011, high: 6011, brand: BrandDiscover},
	{prefixLen: 4, low: 3528, high: 3589, brand: BrandJCB},
	{prefixLen: 3, low: 300, high: 305, brand: BrandDiners},
	{prefixLen: 3, low: 644, high: 649, brand: BrandDiscover},
	{prefixLen: 2, low: 34, high: 34, brand: BrandAmex},
	{prefixLen: 2, low: 37, high: 37, brand: BrandAmex},
	{prefixLen: 2, low: 36, high: 36, brand: BrandDiners},
	{prefixLen: 2, low: 38, high: 39, brand: BrandDiners},
	{prefixLen: 2, low: 51, high: 55, brand: BrandMastercard},
	{prefixLen: 2, low: 65, high: 65, brand: BrandDiscover},
	{prefixLen: 1, low: 4, high: 4, brand: BrandVisa},
}

// CardBrand guesses the network of a (possibly partial, possibly formatted)
// card number.
func CardBrand(number string) Brand {
	digits := digitsOnly(number, maxCardDigits)
	for _, r := range brandRanges {
		if len(digits) < r.prefixLen {
			continue
		}
		prefix, err := strconv.Atoi(digits[:r.prefixLen])
		if err != nil {
			continue
		}
		if prefix >= r.low && prefix <= r.high {
			return r.brand
		}
	}
	return BrandUnknown
}
