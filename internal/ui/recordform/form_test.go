package recordform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/exchange-connect/internal/ews"
	"github.com/nhle/exchange-connect/internal/exchange"
)

func TestValues_Config(t *testing.T) {
	v := Values{
		Version:  "Exchange2010_SP2",
		Mode:     "autoDiscoveryDomain",
		Address:  "alice@example.com",
		Username: "alice",
		Password: "secret",
		Domain:   "CORP",
	}

	cfg, err := v.Config()
	require.NoError(t, err)
	assert.Equal(t, exchange.Config{
		Version:  ews.Exchange2010SP2,
		Mode:     exchange.ModeAutoDiscoveryDomain,
		Address:  "alice@example.com",
		Username: "alice",
		Password: "secret",
		Domain:   "CORP",
	}, cfg)
}

func TestValues_ConfigDropsUnusedDomain(t *testing.T) {
	v := Values{
		Version:  "Exchange2013",
		Mode:     "manualUrl",
		Address:  "https://mail.example.com/EWS/Exchange.asmx",
		Username: "alice",
		Password: "secret",
		Domain:   "LEFTOVER",
	}

	cfg, err := v.Config()
	require.NoError(t, err)
	assert.Empty(t, cfg.Domain)
}

func TestValues_ConfigErrors(t *testing.T) {
	base := Values{
		Version:  "Exchange2013",
		Mode:     "manualUrlDomain",
		Address:  "https://mail.example.com/EWS/Exchange.asmx",
		Username: "alice",
		Password: "secret",
		Domain:   "CORP",
	}

	v := base
	v.Version = "Exchange2003"
	_, err := v.Config()
	assert.True(t, exchange.IsUnsupportedVersion(err))

	v = base
	v.Mode = "foo"
	_, err = v.Config()
	assert.True(t, exchange.IsInvalidConnectionMode(err))

	v = base
	v.Domain = " "
	_, err = v.Config()
	assert.True(t, exchange.IsMissingField(err))
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, validateAddress("autoDiscovery", "alice@example.com"))
	assert.Error(t, validateAddress("autoDiscovery", "mail.example.com"))
	assert.NoError(t, validateAddress("manualUrl", "https://mail.example.com/EWS/Exchange.asmx"))
	assert.Error(t, validateAddress("manualUrl", "mail.example.com"))
	assert.Error(t, validateAddress("manualUrl", "  "))
}

func TestNew_SetsDefaults(t *testing.T) {
	var v Values
	require.NotNil(t, New(&v))
	assert.Equal(t, "Exchange2013_SP1", v.Version)
	assert.Equal(t, "autoDiscovery", v.Mode)

	assert.False(t, requiresDomain(v.Mode))
	assert.True(t, requiresDomain("manualUrlDomain"))
}
