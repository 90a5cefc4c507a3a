package cardform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   Brand
	}{
		{"4242 4242 4242 4242", BrandVisa},
		{"4", BrandVisa},
		{"5555 5555 5555 4444", BrandMastercard},
		{"2223 0031 2200 3222", BrandMastercard},
		{"378282246310005", BrandAmex},
		{"34", BrandAmex},
		{"6011 1111 1111 1117", BrandDiscover},
		{"6500", BrandDiscover},
		{"3056 9300 0902 0004", BrandDiners},
		{"36227206271667", BrandDiners},
		{"3530 1113 3330 0000", BrandJCB},
		{"", BrandUnknown},
		{"9999", BrandUnknown},
		{"1234 5678", BrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, CardBrand(tt.number))
		})
	}
}
