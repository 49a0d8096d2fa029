// Package terbilang spells amounts in Indonesian words and formats rupiah
// figures for printed documents.
package terbilang

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = [...]string{
	"", "satu", "dua", "tiga", "empat", "lima",
	"enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas",
}

var scales = []struct {
	value uint64
	word  string
}{
	{1_000_000_000_000, "triliun"},
	{1_000_000_000, "miliar"},
	{1_000_000, "juta"},
	{1_000, "ribu"},
}

// NumberToWords returns the Indonesian words for n, e.g. 1250000 ->
// "satu juta dua ratus lima puluh ribu".
func NumberToWords(n int64) string {
	switch {
	case n == 0:
		return "nol"
	case n < 0:
		return "minus " + spell(uint64(-(n + 1))+1)
	default:
		return spell(uint64(n))
	}
}

func spell(n uint64) string {
	return strings.Join(strings.Fields(words(n)), " ")
}

func words(n uint64) string {
	for _, s := range scales {
		if n >= s.value {
			head, rest := n/s.value, n%s.value
			if head == 1 && s.value == 1_000 {
				return "seribu " + words(rest)
			}
			return words(head) + " " + s.word + " " + words(rest)
		}
	}
	return belowThousand(n)
}

func belowThousand(n uint64) string {
	switch {
	case n < 12:
		return ones[n]
	case n < 20:
		return ones[n-10] + " belas"
	case n < 100:
		return ones[n/10] + " puluh " + ones[n%10]
	case n < 200:
		return "seratus " + belowThousand(n-100)
	default:
		return ones[n/100] + " ratus " + belowThousand(n%100)
	}
}

// Words spells a rupiah amount for a terbilang line: capitalised, fraction
// dropped, suffixed with "rupiah".
func Words(amount decimal.Decimal) string {
	s := NumberToWords(amount.IntPart())
	return strings.ToUpper(s[:1]) + s[1:] + " rupiah"
}

// Rupiah formats amount as "Rp 1.250.000". Fractions are rounded to whole
// rupiah.
func Rupiah(amount decimal.Decimal) string {
	return "Rp " + FormatThousands(amount)
}

// FormatThousands groups the integer part with dots, Indonesian style.
func FormatThousands(amount decimal.Decimal) string {
	digits := amount.Round(0).String()
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
