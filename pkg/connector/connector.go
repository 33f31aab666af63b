package connector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	jsonpool "github.com/ajitpratap0/afs-connector/pkg/json"
	"github.com/ajitpratap0/afs-connector/pkg/logger"
	"github.com/ajitpratap0/afs-connector/pkg/metrics"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
	"github.com/ajitpratap0/afs-connector/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Default parameter names added to every query.
const (
	ParamService   = "afs:service"
	ParamStatus    = "afs:status"
	ParamOutput    = "afs:output"
	ParamLog       = "afs:log"
	ParamIP        = "afs:ip"
	ParamUserAgent = "afs:userAgent"

	// OutputFormat is the reply format requested from AFS.
	OutputFormat = "json,2"
)

const tracerName = "github.com/ajitpratap0/afs-connector/pkg/connector"

// WebServiceNamed is implemented by every concrete connector: it names the
// AFS web service queried (search, acp...).
type WebServiceNamed interface {
	Name() string
}

// WebService is a WebServiceNamed backed by a constant name.
type WebService string

// Name implements WebServiceNamed.
func (w WebService) Name() string {
	return string(w)
}

// Option configures a connector.
type Option func(*options)

type options struct {
	httpClient     *http.Client
	logger         *zap.Logger
	metrics        *metrics.Collector
	tracerProvider trace.TracerProvider
}

// WithHTTPClient replaces the HTTP client built from the configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. metrics.Default() is used otherwise.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// WithTracerProvider sets the tracer provider. The global one is used
// otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// Connector sends queries to one AFS web service and decodes replies into R.
//
// Send never fails: transport and decoding failures are turned into a
// synthetic error reply decoded like any other reply. A Connector may be
// shared between goroutines; GeneratedURL then reports the URL of whichever
// call finished building its URL last.
type Connector[R any] struct {
	config  Config
	service WebServiceNamed
	decoder reply.Decoder[R]

	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer

	mu     sync.RWMutex
	url    string
	hasURL bool
}

// New creates a connector for service using decoder to build replies. It
// panics when service or decoder is nil.
func New[R any](cfg Config, service WebServiceNamed, decoder reply.Decoder[R], opts ...Option) (*Connector[R], error) {
	if service == nil {
		panic("connector: web service is required")
	}
	if decoder == nil {
		panic("connector: reply decoder is required")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	if o.metrics == nil {
		o.metrics = metrics.Default()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	log := o.logger.With(
		zap.String("component", "afs_connector"),
		zap.String("web_service", service.Name()),
	)
	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(cfg.HTTP, log)
	}

	return &Connector[R]{
		config:  cfg,
		service: service,
		decoder: decoder,
		client:  o.httpClient,
		logger:  log,
		metrics: o.metrics,
		tracer:  o.tracerProvider.Tracer(tracerName),
	}, nil
}

// NewMap creates a connector whose replies are key-ordered maps.
func NewMap(cfg Config, service WebServiceNamed, opts ...Option) (*Connector[*reply.Map], error) {
	return New[*reply.Map](cfg, service, reply.MapDecoder{}, opts...)
}

// NewRecord creates a connector whose replies are decoded into *T.
func NewRecord[T any](cfg Config, service WebServiceNamed, opts ...Option) (*Connector[*T], error) {
	return New[*T](cfg, service, reply.RecordDecoder[T]{}, opts...)
}

// Config returns a copy of the connector configuration.
func (c *Connector[R]) Config() Config {
	return c.config
}

// WebServiceName returns the name of the queried web service.
func (c *Connector[R]) WebServiceName() string {
	return c.service.Name()
}

// GeneratedURL returns the URL built by the last call to BuildURL or Send.
// The boolean is false when no URL was built yet.
func (c *Connector[R]) GeneratedURL() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url, c.hasURL
}

// BuildURL builds the URL querying webService with params on behalf of
// caller, and remembers it for GeneratedURL.
//
// Default parameters come first: afs:service, afs:status, afs:output,
// afs:log, then afs:ip and afs:userAgent when the caller provides them.
// Caller parameters follow in their own order; a caller parameter named like
// a default one is ignored.
func (c *Connector[R]) BuildURL(webService string, params *Parameters, caller Caller) string {
	merged := c.withDefaults(params, caller)
	u := fmt.Sprintf("%s://%s/%s?%s", c.config.Scheme, c.config.Host, webService, merged.Encode())

	c.mu.Lock()
	c.url = u
	c.hasURL = true
	c.mu.Unlock()

	return u
}

func (c *Connector[R]) withDefaults(params *Parameters, caller Caller) *Parameters {
	merged := NewParameters().
		Set(ParamService, c.config.Service.ID).
		Set(ParamStatus, string(c.config.Service.Status)).
		Set(ParamOutput, OutputFormat).
		Set(ParamLog, version.APIVersion())
	if caller.IP != "" {
		merged.Set(ParamIP, caller.IP)
	}
	if caller.UserAgent != "" {
		merged.Set(ParamUserAgent, caller.UserAgent)
	}

	for _, key := range params.Keys() {
		if merged.Has(key) {
			continue
		}
		for _, value := range params.Values(key) {
			merged.Add(key, value)
		}
	}
	return merged
}

// Send queries the web service with params on behalf of caller and returns
// the decoded reply.
//
// When the request cannot be built, the reply is the synthetic error
// "Cannot initialize connexion". When the transfer fails, the body is
// empty, or the body does not decode to a non-empty reply, the reply is the
// synthetic error "Failed to execute request". The cause is logged, counted
// and recorded on the trace span but not returned.
func (c *Connector[R]) Send(ctx context.Context, params *Parameters, caller Caller) R {
	name := c.service.Name()
	timer := metrics.NewTimer(name)

	ctx, span := c.tracer.Start(ctx, "afs.connector.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("afs.web_service", name)),
	)
	defer span.End()

	u := c.BuildURL(name, params, caller)
	span.SetAttributes(attribute.String("url.full", u))
	log := logger.WithContext(ctx, c.logger).With(zap.String("url", u))

	body, err := c.execute(ctx, u, caller, log)
	if err != nil {
		return c.fail(span, log, timer, err)
	}
	c.metrics.ObserveReplySize(name, len(body))

	r, err := c.decoder.Decode(body)
	if err != nil {
		return c.fail(span, log, timer,
			afserrors.Wrap(err, afserrors.ErrorTypeDecode, "failed to decode reply").WithDetail("url", u))
	}
	if c.decoder.Empty(r) {
		return c.fail(span, log, timer,
			afserrors.New(afserrors.ErrorTypeDecode, "reply is empty").WithDetail("url", u))
	}

	c.metrics.ObserveRequest(name, metrics.OutcomeSuccess, timer.Stop())
	span.SetStatus(codes.Ok, "")
	log.Debug("reply received", zap.Int("bytes", len(body)))
	return r
}

func (c *Connector[R]) execute(ctx context.Context, u string, caller Caller, log *zap.Logger) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, afserrors.Wrap(err, afserrors.ErrorTypeConnection, "failed to initialize request").
			WithDetail("url", u)
	}

	// An explicitly empty User-Agent keeps net/http from sending its own.
	req.Header.Set("User-Agent", "")
	req.Header.Set("Accept", "application/json")
	if c.config.HTTP.EnableGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	caller.applyHeaders(req.Header)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, afserrors.Wrap(err, transportErrorType(err), "request failed").
			WithDetail("url", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("web service answered with an error status", zap.Int("status", resp.StatusCode))
	}

	rc, err := decodedBody(resp)
	if err != nil {
		return nil, afserrors.Wrap(err, afserrors.ErrorTypeExecution, "failed to open compressed reply").
			WithDetail("url", u).
			WithDetail("status", resp.StatusCode)
	}
	defer rc.Close()

	body, err := jsonpool.ReadAll(rc)
	if err != nil {
		return nil, afserrors.Wrap(err, transportErrorType(err), "failed to read reply").
			WithDetail("url", u).
			WithDetail("status", resp.StatusCode)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, afserrors.New(afserrors.ErrorTypeExecution, "empty reply").
			WithDetail("url", u).
			WithDetail("status", resp.StatusCode)
	}
	return body, nil
}

func transportErrorType(err error) afserrors.ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return afserrors.ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return afserrors.ErrorTypeTimeout
	}
	return afserrors.ErrorTypeExecution
}

// fail records err and returns the synthetic error reply matching it.
func (c *Connector[R]) fail(span trace.Span, log *zap.Logger, timer *metrics.Timer, err error) R {
	message := reply.MessageExecutionFailed
	outcome := metrics.OutcomeExecutionError
	switch afserrors.TypeOf(err) {
	case afserrors.ErrorTypeConnection:
		message = reply.MessageCannotConnect
		outcome = metrics.OutcomeConnectionError
	case afserrors.ErrorTypeDecode:
		outcome = metrics.OutcomeDecodeError
	}

	c.metrics.ObserveRequest(c.service.Name(), outcome, timer.Stop())
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	log.Warn(message,
		zap.String("error_type", string(afserrors.TypeOf(err))),
		zap.Error(err),
	)

	return c.errorReply(message, log)
}

func (c *Connector[R]) errorReply(message string, log *zap.Logger) R {
	r, err := c.decoder.Decode(reply.ErrorBody(message))
	if err != nil {
		// R cannot hold the error envelope; the zero reply is all we have.
		log.Error("reply type cannot represent error replies", zap.Error(err))
		var zero R
		return zero
	}
	return r
}
