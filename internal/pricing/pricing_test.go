package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_Business(t *testing.T) {
	assert.Equal(t, 7000, Quote("business type", "Home,About"))
	assert.Equal(t, 7000, Quote("Business", "Home,About,Contact,Team,Pricing"))
	assert.Equal(t, 10000, Quote("business", "Home,About,Contact,Team,Pricing,Blog"))
}

func TestQuote_Ecommerce(t *testing.T) {
	assert.Equal(t, 15000, Quote("ecommerce", "a"))
	assert.Equal(t, 15000, Quote("e-commerce store", "a,b,c,d,e"))
	assert.Equal(t, 25000, Quote("e-commerce store", "a,b,c,d,e,f"))
}

func TestQuote_Portfolio(t *testing.T) {
	// page count is irrelevant for portfolio sites
	assert.Equal(t, 5000, Quote("portfolio", "a,b,c,d,e,f,g"))
	assert.Equal(t, 5000, Quote("my portfolio", "a"))
}

func TestQuote_Default(t *testing.T) {
	assert.Equal(t, 8000, Quote("blog", "a"))
	assert.Equal(t, 8000, Quote("", ""))
}

func TestQuote_IgnoresEmptyPageTokens(t *testing.T) {
	// "Home, About, , ," has two real pages, not four
	assert.Equal(t, 7000, Quote("business", "Home, About, , ,"))
}
