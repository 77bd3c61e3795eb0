package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and strips spaces", "Acme Traders", "acmetraders"},
		{"ampersand collapses to and", "A & B Co", "aandbco"},
		{"already compact", "a&bco", "aandbco"},
		{"surrounding whitespace", "  Widget Works  ", "widgetworks"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompanyKey(tt.input))
		})
	}
}

func TestCompanyKey_EquivalentSpellings(t *testing.T) {
	assert.Equal(t, CompanyKey("A & B Co"), CompanyKey("a&bco"))
	assert.Equal(t, CompanyKey("A&B CO"), CompanyKey(" a & b co "))
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "widget", ProductKey("Widget"))
	assert.Equal(t, "steelrod8mm", ProductKey("  Steel Rod 8mm "))
	assert.Equal(t, "", ProductKey("   "))
	// "&" is not special for products
	assert.Equal(t, "nuts&bolts", ProductKey("Nuts & Bolts"))
}

func TestNormalizationIdempotent(t *testing.T) {
	for _, s := range []string{"A & B Co", "Widget Works", "steel rod", ""} {
		assert.Equal(t, CompanyKey(s), CompanyKey(CompanyKey(s)))
		assert.Equal(t, ProductKey(s), ProductKey(ProductKey(s)))
	}
}
