package exchange

import (
	"strings"

	"github.com/nhle/exchange-connect/internal/ews"
)

// Mode selects how the endpoint is resolved and which credential shape is
// presented.
type Mode int

const (
	ModeAutoDiscovery Mode = iota + 1
	ModeAutoDiscoveryDomain
	ModeManualURL
	ModeManualURLDomain
)

// String returns the record tag for the mode.
func (m Mode) String() string {
	switch m {
	case ModeAutoDiscovery:
		return "autoDiscovery"
	case ModeAutoDiscoveryDomain:
		return "autoDiscoveryDomain"
	case ModeManualURL:
		return "manualUrl"
	case ModeManualURLDomain:
		return "manualUrlDomain"
	default:
		return "unknown"
	}
}

// Autodiscover reports whether the endpoint is discovered from a mailbox
// address rather than taken literally.
func (m Mode) Autodiscover() bool {
	return m == ModeAutoDiscovery || m == ModeAutoDiscoveryDomain
}

// RequiresDomain reports whether the mode authenticates with a domain.
func (m Mode) RequiresDomain() bool {
	return m == ModeAutoDiscoveryDomain || m == ModeManualURLDomain
}

// Modes returns every connection mode in record-tag order.
func Modes() []Mode {
	return []Mode{
		ModeAutoDiscovery,
		ModeAutoDiscoveryDomain,
		ModeManualURL,
		ModeManualURLDomain,
	}
}

// ModeFor maps the explicit-argument flags onto a Mode.
func ModeFor(autoDetect, withDomain bool) Mode {
	switch {
	case autoDetect && withDomain:
		return ModeAutoDiscoveryDomain
	case autoDetect:
		return ModeAutoDiscovery
	case withDomain:
		return ModeManualURLDomain
	default:
		return ModeManualURL
	}
}

// ParseMode maps a record tag onto a Mode. Tags are case sensitive.
func ParseMode(tag string) (Mode, error) {
	switch tag {
	case "autoDiscovery":
		return ModeAutoDiscovery, nil
	case "autoDiscoveryDomain":
		return ModeAutoDiscoveryDomain, nil
	case "manualUrl":
		return ModeManualURL, nil
	case "manualUrlDomain":
		return ModeManualURLDomain, nil
	default:
		return 0, &InvalidConnectionModeError{Tag: tag}
	}
}

// ParseVersion maps a server version tag onto an ews.Version. Unknown tags
// fail; there is no fallback version.
func ParseVersion(tag string) (ews.Version, error) {
	switch tag {
	case "Exchange2007_SP1":
		return ews.Exchange2007SP1, nil
	case "Exchange2010":
		return ews.Exchange2010, nil
	case "Exchange2010_SP1":
		return ews.Exchange2010SP1, nil
	case "Exchange2010_SP2":
		return ews.Exchange2010SP2, nil
	case "Exchange2013":
		return ews.Exchange2013, nil
	case "Exchange2013_SP1":
		return ews.Exchange2013SP1, nil
	default:
		return 0, &UnsupportedVersionError{Tag: tag}
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
