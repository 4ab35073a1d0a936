package recordform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/exchange-connect/internal/ews"
	"github.com/nhle/exchange-connect/internal/exchange"
)

// Values holds the raw answers collected by the form.
type Values struct {
	Version  string
	Mode     string
	Address  string
	Username string
	Password string
	Domain   string
}

// New builds an interactive form writing into v. The domain prompt is
// only shown for the domain modes.
func New(v *Values) *huh.Form {
	if v.Version == "" {
		v.Version = ews.Exchange2013SP1.String()
	}
	if v.Mode == "" {
		v.Mode = exchange.ModeAutoDiscovery.String()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Exchange Version").
				Description("Schema version of the target server").
				Options(versionOptions()...).
				Value(&v.Version),
			huh.NewSelect[string]().
				Title("Connection Mode").
				Description("How the service endpoint is found").
				Options(modeOptions()...).
				Value(&v.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Address").
				DescriptionFunc(func() string {
					if autodiscover(v.Mode) {
						return "Mailbox address used for autodiscovery"
					}
					return "EWS endpoint URL"
				}, &v.Mode).
				Placeholder("user@example.com").
				Value(&v.Address).
				Validate(func(s string) error {
					return validateAddress(v.Mode, s)
				}),
			huh.NewInput().
				Title("Username").
				Value(&v.Username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Description("Password, or keyring:<key> to reference a stored secret").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password).
				Validate(validateRequired("Password")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Description("Active Directory domain").
				Placeholder("CORP").
				Value(&v.Domain).
				Validate(validateRequired("Domain")),
		).WithHideFunc(func() bool {
			return !requiresDomain(v.Mode)
		}),
	)
}

// Config converts the answers into a validated configuration. The domain
// is dropped for modes that do not use one.
func (v Values) Config() (exchange.Config, error) {
	version, err := exchange.ParseVersion(v.Version)
	if err != nil {
		return exchange.Config{}, err
	}
	mode, err := exchange.ParseMode(v.Mode)
	if err != nil {
		return exchange.Config{}, err
	}

	cfg := exchange.Config{
		Version:  version,
		Mode:     mode,
		Address:  v.Address,
		Username: v.Username,
		Password: v.Password,
	}
	if mode.RequiresDomain() {
		cfg.Domain = v.Domain
	}

	if err := cfg.Validate(); err != nil {
		return exchange.Config{}, err
	}
	return cfg, nil
}

func versionOptions() []huh.Option[string] {
	versions := ews.Versions()
	opts := make([]huh.Option[string], 0, len(versions))
	for _, v := range versions {
		opts = append(opts, huh.NewOption(v.String(), v.String()))
	}
	return opts
}

func modeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Autodiscover from mailbox address", exchange.ModeAutoDiscovery.String()),
		huh.NewOption("Autodiscover, with AD domain", exchange.ModeAutoDiscoveryDomain.String()),
		huh.NewOption("Manual EWS URL", exchange.ModeManualURL.String()),
		huh.NewOption("Manual EWS URL, with AD domain", exchange.ModeManualURLDomain.String()),
	}
}

func autodiscover(mode string) bool {
	m, err := exchange.ParseMode(mode)
	return err == nil && m.Autodiscover()
}

func requiresDomain(mode string) bool {
	m, err := exchange.ParseMode(mode)
	return err == nil && m.RequiresDomain()
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateAddress(mode, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("address is required")
	}
	if autodiscover(mode) {
		if !strings.Contains(s, "@") {
			return fmt.Errorf("address must be a mailbox address (e.g., user@example.com)")
		}
		return nil
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://mail.example.com/EWS/Exchange.asmx)")
	}
	return nil
}
