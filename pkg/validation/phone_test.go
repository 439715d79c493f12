package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/internal/i18n"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"+7 (906) 000-00-00", "+79060000000", true},
		{"89060000000", "+79060000000", true},
		{"79060000000", "+79060000000", true},
		{"9060000000", "+79060000000", true},
		{"19060000000", "", false},
		{"906000", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			got, ok := NormalizePhone(c.raw)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestPhoneRoundTrip(t *testing.T) {
	for _, canonical := range []string{"+79060000000", "+79161234567", "+70000000000"} {
		formatted := FormatPhone(canonical)
		back, ok := NormalizePhone(formatted)
		require.True(t, ok)
		require.Equal(t, canonical, back)
	}
	require.Equal(t, "+7 (916) 123-45-67", FormatPhone("+79161234567"))
}

func TestValidatorPhone(t *testing.T) {
	v := New(i18n.New("en"))

	res := v.Phone("8 916 123 45 67")
	require.True(t, res.Valid)
	require.Equal(t, "+79161234567", res.Value)

	require.Equal(t, "Enter the phone number", v.Phone("").Message)
	require.False(t, v.Phone("12345").Valid)
}
