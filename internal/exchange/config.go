package exchange

import (
	"fmt"

	"github.com/nhle/exchange-connect/internal/ews"
)

// Config holds the parameters for a single connection attempt. It is
// consumed by Connector.Build and not retained.
type Config struct {
	Version  ews.Version
	Mode     Mode
	Address  string
	Username string
	Password string
	Domain   string
}

type requiredField struct {
	field string
	value string
}

// Validate checks that every field the mode needs is present. Fields are
// checked in record order so the first missing one is reported.
func (c Config) Validate() error {
	if !c.Version.Valid() {
		return &UnsupportedVersionError{Tag: c.Version.String()}
	}
	if _, err := ParseMode(c.Mode.String()); err != nil {
		return err
	}

	required := []requiredField{
		{"address", c.Address},
		{"username", c.Username},
		{"password", c.Password},
	}
	if c.Mode.RequiresDomain() {
		required = append(required, requiredField{"domain", c.Domain})
	}

	for _, r := range required {
		if isBlank(r.value) {
			return &MissingFieldError{Field: r.field}
		}
	}
	return nil
}

// Credentials returns the credential shape for the mode. The domain is
// dropped for modes that do not authenticate with one.
func (c Config) Credentials() ews.Credentials {
	creds := ews.Credentials{
		Username: c.Username,
		Password: c.Password,
	}
	if c.Mode.RequiresDomain() {
		creds.Domain = c.Domain
	}
	return creds
}

// String describes the config without its password.
func (c Config) String() string {
	return fmt.Sprintf("%s %s %s as %s", c.Version, c.Mode, c.Address, c.Credentials())
}
