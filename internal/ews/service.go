package ews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
)

var (
	// ErrAutodiscoverUnavailable is returned by AutodiscoverURL when the
	// Service was created without an Autodiscoverer.
	ErrAutodiscoverUnavailable = errors.New("autodiscover not available")

	// ErrInvalidURL is returned when an endpoint is not an absolute
	// http(s) URL.
	ErrInvalidURL = errors.New("invalid EWS endpoint URL")
)

// Autodiscoverer resolves the EWS endpoint for a mailbox address. The
// lookup protocol is provider defined and may block on the network.
type Autodiscoverer interface {
	Discover(ctx context.Context, address string, creds Credentials) (*url.URL, error)
}

// AutodiscoverFunc adapts a plain function to the Autodiscoverer interface.
type AutodiscoverFunc func(ctx context.Context, address string, creds Credentials) (*url.URL, error)

// Discover calls f.
func (f AutodiscoverFunc) Discover(
	ctx context.Context, address string, creds Credentials,
) (*url.URL, error) {
	return f(ctx, address, creds)
}

// Option configures a Service.
type Option func(*Service)

// WithAutodiscoverer sets the resolver used by AutodiscoverURL.
func WithAutodiscoverer(d Autodiscoverer) Option {
	return func(s *Service) {
		s.discoverer = d
	}
}

// WithLogger sets the logger used by the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service is a handle to a remote Exchange server bound to one schema
// version. It carries the endpoint and credentials used by later calls.
type Service struct {
	version     Version
	credentials Credentials
	url         *url.URL
	discoverer  Autodiscoverer
	logger      *slog.Logger
}

// NewService creates a Service for the given schema version.
func NewService(version Version, opts ...Option) *Service {
	s := &Service{
		version: version,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version returns the schema version the Service was created with.
func (s *Service) Version() Version {
	return s.version
}

// SetCredentials replaces the network credential.
func (s *Service) SetCredentials(creds Credentials) {
	s.credentials = creds
}

// Credentials returns a copy of the network credential.
func (s *Service) Credentials() Credentials {
	return s.credentials
}

// SetURL sets the EWS endpoint explicitly.
func (s *Service) SetURL(raw string) error {
	u, err := parseEndpoint(raw)
	if err != nil {
		return err
	}
	s.url = u
	return nil
}

// AutodiscoverURL resolves the endpoint for address using the configured
// Autodiscoverer and the current credentials. Errors from the resolver are
// returned as is.
func (s *Service) AutodiscoverURL(ctx context.Context, address string) error {
	if s.discoverer == nil {
		return ErrAutodiscoverUnavailable
	}

	u, err := s.discoverer.Discover(ctx, address, s.credentials)
	if err != nil {
		return err
	}
	if u == nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("autodiscover for %s: %w", address, ErrInvalidURL)
	}

	s.logger.Debug("autodiscover resolved endpoint",
		slog.String("address", address),
		slog.String("url", u.String()),
	)
	s.url = cloneURL(u)
	return nil
}

// URL returns a copy of the endpoint, or nil if none has been set.
func (s *Service) URL() *url.URL {
	if s.url == nil {
		return nil
	}
	return cloneURL(s.url)
}

// parseEndpoint accepts only absolute http and https URLs with a host.
func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint %q: %w", raw, errors.Join(ErrInvalidURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: %w", raw, ErrInvalidURL)
	}
	return u, nil
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
