package i18n

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFallsBackToRussian(t *testing.T) {
	require.Equal(t, language.Russian, New("").Tag())
	require.Equal(t, language.Russian, New("ru-RU").Tag())
	require.Equal(t, language.English, New("en-US").Tag())
}

func TestNumberFormatting(t *testing.T) {
	l := New("en")

	cases := []struct {
		value string
		want  string
	}{
		{"300000", "300,000"},
		{"10", "10"},
		{"1500.5", "1,500.50"},
		{"0.01", "0.01"},
		{"12000.00", "12,000"},
	}
	for _, c := range cases {
		t.Run(c.value, func(t *testing.T) {
			require.Equal(t, c.want, l.Number(decimal.RequireFromString(c.value)))
		})
	}
}

func TestRussianNumberUsesNonBreakingSpace(t *testing.T) {
	l := New("ru")
	require.Equal(t, "300\u00a0000", l.Number(decimal.NewFromInt(300000)))
}

func TestMessagesByLocale(t *testing.T) {
	require.Equal(t, "Укажите сумму", New("ru").T(AmountRequired))
	require.Equal(t, "Enter the amount", New("en").T(AmountRequired))
	require.Equal(t, "Minimum amount 10 ₽", New("en").T(AmountMin, "10", " ₽"))
}

func TestRussianDigitPlurals(t *testing.T) {
	l := New("ru")
	require.Equal(t, "21 цифра", l.T(DigitsCount, 21))
	require.Equal(t, "22 цифры", l.T(DigitsCount, 22))
	require.Equal(t, "15 цифр", l.T(DigitsCount, 15))
}

func TestHas(t *testing.T) {
	l := New("en")
	require.True(t, l.Has(APIPrefix+"invalid_token"))
	require.False(t, l.Has(APIPrefix+"totally_unknown"))
}
