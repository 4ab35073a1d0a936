package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/exchange-connect/internal/ews"
)

func TestParseRecord_Modes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Config
	}{
		{
			name: "autoDiscovery",
			text: "Exchange2010\nautoDiscovery\nalice@example.com\nalice\nsecret\n",
			want: Config{
				Version: ews.Exchange2010, Mode: ModeAutoDiscovery,
				Address: "alice@example.com", Username: "alice", Password: "secret",
			},
		},
		{
			name: "autoDiscoveryDomain",
			text: "Exchange2010_SP2\nautoDiscoveryDomain\nalice@example.com\nalice\nsecret\nCORP\n",
			want: Config{
				Version: ews.Exchange2010SP2, Mode: ModeAutoDiscoveryDomain,
				Address: "alice@example.com", Username: "alice", Password: "secret", Domain: "CORP",
			},
		},
		{
			name: "manualUrl",
			text: "Exchange2013_SP1\nmanualUrl\nhttps://mail.example.com/EWS/Exchange.asmx\nalice\nsecret",
			want: Config{
				Version: ews.Exchange2013SP1, Mode: ModeManualURL,
				Address: "https://mail.example.com/EWS/Exchange.asmx", Username: "alice", Password: "secret",
			},
		},
		{
			name: "manualUrlDomain with CRLF",
			text: "Exchange2007_SP1\r\nmanualUrlDomain\r\nhttps://mail.example.com/EWS/Exchange.asmx\r\nalice\r\nsecret\r\nCORP\r\n",
			want: Config{
				Version: ews.Exchange2007SP1, Mode: ModeManualURLDomain,
				Address: "https://mail.example.com/EWS/Exchange.asmx", Username: "alice", Password: "secret", Domain: "CORP",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRecord(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRecord_NonDomainModeIgnoresDomainLine(t *testing.T) {
	got, err := ParseRecord("Exchange2013\nmanualUrl\nhttps://mail.example.com/EWS/Exchange.asmx\nalice\nsecret\nCORP\n")
	require.NoError(t, err)
	assert.Empty(t, got.Domain)
	assert.False(t, got.Credentials().HasDomain())
}

func TestParseRecord_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{"no address", "Exchange2013\nmanualUrl\n", "address"},
		{"blank address", "Exchange2013\nmanualUrl\n   \nalice\nsecret\n", "address"},
		{"no username", "Exchange2013\nautoDiscovery\nalice@example.com\n", "username"},
		{"blank username", "Exchange2013\nautoDiscovery\nalice@example.com\n\t\nsecret\n", "username"},
		{"no password", "Exchange2013\nautoDiscovery\nalice@example.com\nalice\n", "password"},
		{"no domain", "Exchange2013\nautoDiscoveryDomain\nalice@example.com\nalice\nsecret\n", "domain"},
		{"blank domain", "Exchange2013\nmanualUrlDomain\nhttps://mail.example.com/EWS\nalice\nsecret\n \n", "domain"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRecord(tc.text)
			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tc.field, mf.Field)
		})
	}
}

func TestParseRecord_VersionCheckedBeforeMode(t *testing.T) {
	_, err := ParseRecord("Exchange2099\nfoo\n")
	assert.True(t, IsUnsupportedVersion(err))

	_, err = ParseRecord("")
	assert.True(t, IsUnsupportedVersion(err))
}

func TestParseRecord_InvalidMode(t *testing.T) {
	_, err := ParseRecord("Exchange2013\nfoo\nalice@example.com\nalice\nsecret\n")

	var me *InvalidConnectionModeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "foo", me.Tag)
}

func TestParseRecord_ModeCheckedBeforeFields(t *testing.T) {
	_, err := ParseRecord("Exchange2013\nfoo\n")
	assert.True(t, IsInvalidConnectionMode(err))
}

func TestParseRecord_TrailingContent(t *testing.T) {
	text := "Exchange2013\nmanualUrl\nhttps://mail.example.com/EWS\nalice\nsecret\n\nleftover\n"

	_, err := ParseRecord(text)
	require.NoError(t, err)

	_, err = ParseRecord(text, StrictRecord())
	var mr *MalformedRecordError
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, 7, mr.Line)
}

func TestParseRecord_StrictAllowsTrailingBlankLines(t *testing.T) {
	text := "Exchange2013\nautoDiscoveryDomain\nalice@example.com\nalice\nsecret\nCORP\n\n  \n"
	_, err := ParseRecord(text, StrictRecord())
	require.NoError(t, err)
}

func TestFormatRecord_RoundTrip(t *testing.T) {
	for _, mode := range Modes() {
		cfg := Config{
			Version:  ews.Exchange2010SP1,
			Mode:     mode,
			Address:  "alice@example.com",
			Username: "alice",
			Password: "secret",
		}
		if mode.RequiresDomain() {
			cfg.Domain = "CORP"
		}

		got, err := ParseRecord(FormatRecord(cfg), StrictRecord())
		require.NoError(t, err, mode.String())
		assert.Equal(t, cfg, got)
	}
}

func TestFormatRecord_OmitsDomainForPlainModes(t *testing.T) {
	cfg := Config{
		Version:  ews.Exchange2013,
		Mode:     ModeManualURL,
		Address:  "https://mail.example.com/EWS/Exchange.asmx",
		Username: "alice",
		Password: "secret",
		Domain:   "CORP",
	}
	assert.Equal(t,
		"Exchange2013\nmanualUrl\nhttps://mail.example.com/EWS/Exchange.asmx\nalice\nsecret\n",
		FormatRecord(cfg),
	)
}
