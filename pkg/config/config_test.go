package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/pkg/validation"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:0", c.Server.Address)
	require.Equal(t, "http://localhost:8001/api/v1", c.Backend.BaseURL)
	require.Equal(t, 10*time.Second, c.Backend.Timeout)
	require.Equal(t, 1200*time.Millisecond, c.Session.RedirectDelay)
	require.Equal(t, "/login", c.Session.LoginPath)
	require.Equal(t, "ru", c.UI.Locale)
	require.Equal(t, 400*time.Millisecond, c.Lookup.Debounce)
	require.True(t, c.Log.Enabled)
	require.Empty(t, c.Log.Level)

	rules, err := c.Rules()
	require.NoError(t, err)
	require.Equal(t, validation.DefaultRules(), rules)
}

func TestFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "https://bank.example/api/v1"
timeout = "3s"

[ui]
locale = "en"

[lookup]
debounce = "250ms"

[log]
level = "warn"

[limits.transfer]
max = 150000

[limits.topup]
min = "5"
max = "1000"
`)
	t.Setenv("DASHBOARD_UI_LOCALE", "ru")

	c, err := Load(NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, "https://bank.example/api/v1", c.Backend.BaseURL)
	require.Equal(t, 3*time.Second, c.Backend.Timeout)
	require.Equal(t, "ru", c.UI.Locale)
	require.Equal(t, 250*time.Millisecond, c.Lookup.Debounce)
	require.Equal(t, "warn", c.Log.Level)

	rules, err := c.Rules()
	require.NoError(t, err)
	transfer := rules[validation.RuleTransfer]
	require.True(t, transfer.Max.Equal(decimal.NewFromInt(150000)))
	require.True(t, transfer.Min.Equal(decimal.NewFromInt(10)))

	topup := rules[validation.RuleTopup]
	require.True(t, topup.HasMax)
	require.True(t, topup.Min.Equal(decimal.NewFromInt(5)))
	require.Equal(t, "₽", topup.Unit)
}

func TestInvalidLimits(t *testing.T) {
	_, err := Load(NewViper(), writeConfig(t, "[limits.mobile]\nmin = 20000\n"))
	require.ErrorContains(t, err, "exceeds maximum")

	_, err = Load(NewViper(), writeConfig(t, "[limits.loans]\nmax = 1\n"))
	require.ErrorContains(t, err, "unknown amount rule")

	_, err = Load(NewViper(), writeConfig(t, "[limits.vendor]\nmax = \"lots\"\n"))
	require.ErrorContains(t, err, "limits.vendor.max")
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
