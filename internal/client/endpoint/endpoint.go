// Package endpoint resolves the request path for a named API resource from the
// port the client page was served on.
//
// When the page comes from the API server itself the path is relative
// ("api/<name>"). Otherwise the page is assumed to be a local development bundle
// and the path points at the API on localhost ("http://localhost:<port>/api/<name>").
package endpoint

import (
	"net"
	"net/url"
)

// Defaults for the development API location.
const (
	DefaultServerPort = "8080"
	DefaultHost       = "localhost"
)

const apiPrefix = "api/"

// Resolve returns the path for endpoint name given the current page port and
// the API server port, assuming the API runs on DefaultHost.
func Resolve(pagePort, serverPort, name string) string {
	return New(WithServerPort(serverPort)).Path(pagePort, name)
}

// Resolver computes endpoint paths. It is immutable after New and safe for
// concurrent use.
type Resolver struct {
	serverPort string
	host       string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithServerPort sets the port the API server is assumed to listen on.
func WithServerPort(port string) Option {
	return func(r *Resolver) {
		if port != "" {
			r.serverPort = port
		}
	}
}

// WithHost sets the host used for cross-origin paths.
func WithHost(host string) Option {
	return func(r *Resolver) {
		if host != "" {
			r.host = host
		}
	}
}

// New returns a Resolver with DefaultServerPort and DefaultHost unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{serverPort: DefaultServerPort, host: DefaultHost}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServerPort returns the configured API server port.
func (r *Resolver) ServerPort() string { return r.serverPort }

// Base returns "" when the page is served from the API server port, and the
// absolute origin of the API otherwise.
func (r *Resolver) Base(pagePort string) string {
	if pagePort == r.serverPort {
		return ""
	}
	return "http://" + net.JoinHostPort(r.host, r.serverPort)
}

// Path returns the request path for name as seen from a page on pagePort.
func (r *Resolver) Path(pagePort, name string) string {
	base := r.Base(pagePort)
	if base == "" {
		return apiPrefix + name
	}
	return base + "/" + apiPrefix + name
}

// PagePort extracts the port of a page URL the way a browser reports
// location.port: empty when the URL carries no explicit port.
func PagePort(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	return u.Port(), nil
}
