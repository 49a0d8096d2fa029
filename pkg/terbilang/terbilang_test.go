package terbilang

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "nol"},
		{1, "satu"},
		{10, "sepuluh"},
		{11, "sebelas"},
		{15, "lima belas"},
		{20, "dua puluh"},
		{99, "sembilan puluh sembilan"},
		{100, "seratus"},
		{115, "seratus lima belas"},
		{200, "dua ratus"},
		{1000, "seribu"},
		{1001, "seribu satu"},
		{2000, "dua ribu"},
		{11000, "sebelas ribu"},
		{100000, "seratus ribu"},
		{1000000, "satu juta"},
		{1250000, "satu juta dua ratus lima puluh ribu"},
		{3500750, "tiga juta lima ratus ribu tujuh ratus lima puluh"},
		{1000000000, "satu miliar"},
		{2000000000000, "dua triliun"},
		{-1500, "minus seribu lima ratus"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumberToWords(tt.in), "NumberToWords(%d)", tt.in)
	}
}

func TestNumberToWordsExtremes(t *testing.T) {
	assert.NotPanics(t, func() { NumberToWords(math.MinInt64) })
	assert.NotPanics(t, func() { NumberToWords(math.MaxInt64) })
}

func TestWords(t *testing.T) {
	assert.Equal(t, "Satu juta dua ratus lima puluh ribu rupiah", Words(decimal.NewFromInt(1250000)))
	assert.Equal(t, "Nol rupiah", Words(decimal.Zero))
	assert.Equal(t, "Seratus rupiah", Words(decimal.RequireFromString("100.75")))
}

func TestRupiah(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"500", "Rp 500"},
		{"1000", "Rp 1.000"},
		{"1250000", "Rp 1.250.000"},
		{"123456789", "Rp 123.456.789"},
		{"-75000", "Rp -75.000"},
		{"999.6", "Rp 1.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupiah(decimal.RequireFromString(tt.in)), tt.in)
	}
}
