package ews

import "fmt"

// Credentials is the network credential presented to the server. Domain is
// empty for plain username/password authentication.
type Credentials struct {
	Username string
	Password string
	Domain   string
}

// HasDomain reports whether the credential carries an AD domain.
func (c Credentials) HasDomain() bool {
	return c.Domain != ""
}

// String renders the credential without its password.
func (c Credentials) String() string {
	if c.HasDomain() {
		return fmt.Sprintf(`%s\%s`, c.Domain, c.Username)
	}
	return c.Username
}
