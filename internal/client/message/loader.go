// Package message loads the greeting for a page: it resolves the API path,
// issues a single GET, and renders either the response or a fixed error text
// into one page element.
package message

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/okian/hello/internal/client/endpoint"
	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
)

// Defaults matching the page bundle.
const (
	DefaultEndpoint  = "hello"
	DefaultElementID = "message"
	DefaultPageURL   = "http://localhost:3000/"

	// ErrorMessage replaces the message whenever the fetch fails.
	ErrorMessage = "Error loading message"
)

// State is the lifecycle of a page load.
type State int

// Load states. Pending covers the time before and during the request.
const (
	StatePending State = iota
	StateRendered
	StateRenderedWithError
)

func (s State) String() string {
	switch s {
	case StateRendered:
		return "rendered"
	case StateRenderedWithError:
		return "rendered-with-error"
	default:
		return "pending"
	}
}

// Outcome is the settled result of a page load.
type Outcome struct {
	Path      string        // resolved endpoint path
	Message   string        // text handed to the render step
	State     State         // settled state
	Err       error         // fetch failure, nil on success
	RenderErr error         // render step failure, if any
	Latency   time.Duration // time spent on the request
}

// Kind returns the fetch failure kind, or "" on success.
func (o Outcome) Kind() Kind { return KindOf(o.Err) }

// Recorder receives fetch metrics. *metrics.Manager satisfies it.
type Recorder interface {
	RecordClientFetch(outcome string, latencyMs float64)
}

// NopRecorder discards fetch metrics. Short-lived processes that never expose
// a registry use it.
type NopRecorder struct{}

// RecordClientFetch does nothing.
func (NopRecorder) RecordClientFetch(string, float64) {}

// Loader performs the one-shot fetch-and-render for a page.
type Loader struct {
	target    Target
	client    Doer
	resolver  *endpoint.Resolver
	rawURL    string
	pageURL   *url.URL
	pagePort  string
	endpoint  string
	elementID string
	markup    bool
	timeout   time.Duration
	logger    logger.Logger
	metrics   Recorder

	once    sync.Once
	mu      sync.RWMutex
	state   State
	outcome Outcome
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for the GET.
func WithHTTPClient(c Doer) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithResolver sets the endpoint resolver.
func WithResolver(r *endpoint.Resolver) Option {
	return func(l *Loader) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithPageURL sets the URL the page was loaded from. Its port selects the
// resolver branch and relative paths are resolved against it.
func WithPageURL(u string) Option {
	return func(l *Loader) {
		if u != "" {
			l.rawURL = u
		}
	}
}

// WithEndpoint sets the endpoint name to fetch.
func WithEndpoint(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.endpoint = name
		}
	}
}

// WithElementID sets the element that receives the message.
func WithElementID(id string) Option {
	return func(l *Loader) {
		if id != "" {
			l.elementID = id
		}
	}
}

// WithMarkup renders the message as raw markup. The response is trusted as HTML.
func WithMarkup(enabled bool) Option {
	return func(l *Loader) {
		l.markup = enabled
	}
}

// WithTimeout bounds the GET. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger that receives the fetch diagnostic.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithMetrics sets the fetch metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(l *Loader) {
		if r != nil {
			l.metrics = r
		}
	}
}

// NewLoader builds a Loader rendering into target.
func NewLoader(target Target, opts ...Option) (*Loader, error) {
	l := &Loader{
		target:    target,
		client:    http.DefaultClient,
		resolver:  endpoint.New(),
		rawURL:    DefaultPageURL,
		endpoint:  DefaultEndpoint,
		elementID: DefaultElementID,
		metrics:   metrics.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	u, err := url.Parse(l.rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPageURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidPageURL, l.rawURL)
	}
	l.pageURL = u
	l.pagePort = u.Port()

	if l.logger == nil {
		l.logger = logger.Get()
	}
	return l, nil
}

// Path returns the resolved endpoint path for this page.
func (l *Loader) Path() string {
	return l.resolver.Path(l.pagePort, l.endpoint)
}

// State reports the current load state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Load runs the fetch and render once. Later calls return the first outcome
// without issuing another request. Failures are folded into the outcome and
// never returned as errors.
func (l *Loader) Load(ctx context.Context) Outcome {
	l.once.Do(func() {
		out := l.run(ctx)
		l.mu.Lock()
		l.state = out.State
		l.outcome = out
		l.mu.Unlock()
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.outcome
}

func (l *Loader) run(ctx context.Context) Outcome {
	out := Outcome{Path: l.Path()}

	start := time.Now()
	msg, err := l.fetch(ctx, out.Path)
	out.Latency = time.Since(start)

	if err != nil {
		kind := KindOf(err)
		l.logger.Error(ctx, "error fetching message",
			logger.String("path", out.Path),
			logger.String("kind", string(kind)),
			logger.Error(err),
		)
		l.metrics.RecordClientFetch(string(kind), msSince(out.Latency))
		out.Err = err
		out.State = StateRenderedWithError
		msg = ErrorMessage
	} else {
		l.logger.Debug(ctx, "message fetched",
			logger.String("path", out.Path),
			logger.Duration("latency", out.Latency),
		)
		l.metrics.RecordClientFetch("ok", msSince(out.Latency))
		out.State = StateRendered
	}

	out.Message = msg
	if msg == "" {
		return out
	}
	if err := Render(l.target, l.elementID, msg, l.markup); err != nil {
		l.logger.Error(ctx, "error rendering message",
			logger.String("element", l.elementID),
			logger.Error(err),
		)
		out.RenderErr = err
	}
	return out
}

func msSince(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
