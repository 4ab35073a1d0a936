package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nhle/exchange-connect/internal/configstore"
	"github.com/nhle/exchange-connect/internal/ews"
)

// ErrNoStore is the cause of a ConfigNotFoundError when the Connector was
// built without a configuration store.
var ErrNoStore = errors.New("no configuration store")

// ServiceFactory creates the client handle for a schema version.
type ServiceFactory func(version ews.Version) *ews.Service

// Option configures a Connector.
type Option func(*Connector)

// WithStore sets the store used by FromStore.
func WithStore(s configstore.Store) Option {
	return func(c *Connector) {
		c.store = s
	}
}

// WithServiceFactory replaces the default ews.NewService constructor.
func WithServiceFactory(f ServiceFactory) Option {
	return func(c *Connector) {
		c.newService = f
	}
}

// WithAutodiscoverer sets the resolver handed to services created by the
// default factory. Without one, autodiscover modes fail with
// ews.ErrAutodiscoverUnavailable.
func WithAutodiscoverer(d ews.Autodiscoverer) Option {
	return func(c *Connector) {
		c.discoverer = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// PasswordResolver maps a configured password onto the secret presented
// to the server, for example by expanding a keyring reference.
type PasswordResolver interface {
	ResolvePassword(raw string) (string, error)
}

// PasswordResolverFunc adapts a plain function to PasswordResolver.
type PasswordResolverFunc func(raw string) (string, error)

// ResolvePassword calls f.
func (f PasswordResolverFunc) ResolvePassword(raw string) (string, error) {
	return f(raw)
}

// WithPasswordResolver resolves every password before the service is
// created, whether it came from a stored record or from arguments.
func WithPasswordResolver(r PasswordResolver) Option {
	return func(c *Connector) {
		c.passwords = r
	}
}

// WithStrictRecords makes FromStore reject records with content after
// their last field.
func WithStrictRecords() Option {
	return func(c *Connector) {
		c.strict = true
	}
}

// Connector builds authenticated ews.Service handles from stored
// configuration items or explicit arguments. It keeps no reference to the
// handles it returns and is safe for concurrent use.
type Connector struct {
	store      configstore.Store
	newService ServiceFactory
	discoverer ews.Autodiscoverer
	passwords  PasswordResolver
	logger     *slog.Logger
	strict     bool
}

// NewConnector creates a Connector.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromStore reads the configuration item name in directory and builds a
// service from it. The store is read exactly once.
func (c *Connector) FromStore(
	ctx context.Context, directory, name string,
) (*ews.Service, error) {
	if isBlank(directory) || isBlank(name) {
		return nil, &ConfigNotFoundError{Directory: directory, Name: name}
	}
	if c.store == nil {
		return nil, &ConfigNotFoundError{Directory: directory, Name: name, Err: ErrNoStore}
	}

	item, err := c.store.Lookup(ctx, directory, name)
	if err != nil {
		if errors.Is(err, configstore.ErrNotFound) || errors.Is(err, configstore.ErrInvalidName) {
			return nil, &ConfigNotFoundError{Directory: directory, Name: name, Err: err}
		}
		return nil, fmt.Errorf("looking up configuration item %s/%s: %w", directory, name, err)
	}
	if item == nil {
		return nil, &ConfigNotFoundError{Directory: directory, Name: name, Err: configstore.ErrNotFound}
	}

	var opts []RecordOption
	if c.strict {
		opts = append(opts, StrictRecord())
	}

	cfg, err := ParseRecord(item.Value, opts...)
	if err != nil {
		c.logger.Debug("rejected configuration item",
			slog.String("directory", directory),
			slog.String("name", name),
			slog.Any("error", err),
		)
		return nil, err
	}

	return c.Build(ctx, cfg)
}

type argOptions struct {
	domain     string
	withDomain bool
}

// ArgOption configures FromArgs.
type ArgOption func(*argOptions)

// WithDomain authenticates with an AD domain in addition to username and
// password. The domain must not be blank.
func WithDomain(domain string) ArgOption {
	return func(o *argOptions) {
		o.domain = domain
		o.withDomain = true
	}
}

// FromArgs builds a service from explicit arguments. With autoDetect the
// endpoint is discovered from address, which must be a mailbox address;
// otherwise address is used as the EWS URL.
func (c *Connector) FromArgs(
	ctx context.Context,
	version, address, username, password string,
	autoDetect bool,
	opts ...ArgOption,
) (*ews.Service, error) {
	var o argOptions
	for _, opt := range opts {
		opt(&o)
	}

	args := []requiredField{
		{"version", version},
		{"address", address},
		{"username", username},
		{"password", password},
	}
	if o.withDomain {
		args = append(args, requiredField{"domain", o.domain})
	}
	for _, a := range args {
		if isBlank(a.value) {
			return nil, &InvalidArgumentError{Argument: a.field}
		}
	}

	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	return c.Build(ctx, Config{
		Version:  v,
		Mode:     ModeFor(autoDetect, o.withDomain),
		Address:  address,
		Username: username,
		Password: password,
		Domain:   o.domain,
	})
}

// Build validates cfg and creates a service bound to its version,
// credentials and endpoint. The endpoint is either discovered or set
// literally, never both. Errors from the service are returned unwrapped,
// and no service is returned on failure.
func (c *Connector) Build(ctx context.Context, cfg Config) (*ews.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.passwords != nil {
		password, err := c.passwords.ResolvePassword(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("resolving password for %s: %w", cfg.Username, err)
		}
		cfg.Password = password
	}

	svc := c.service(cfg.Version)
	svc.SetCredentials(cfg.Credentials())

	if cfg.Mode.Autodiscover() {
		if err := svc.AutodiscoverURL(ctx, cfg.Address); err != nil {
			return nil, err
		}
	} else {
		if err := svc.SetURL(cfg.Address); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("exchange service configured",
		slog.String("version", cfg.Version.String()),
		slog.String("mode", cfg.Mode.String()),
		slog.String("user", cfg.Credentials().String()),
		slog.String("url", svc.URL().String()),
	)

	return svc, nil
}

func (c *Connector) service(version ews.Version) *ews.Service {
	if c.newService != nil {
		return c.newService(version)
	}
	return ews.NewService(version,
		ews.WithAutodiscoverer(c.discoverer),
		ews.WithLogger(c.logger),
	)
}
