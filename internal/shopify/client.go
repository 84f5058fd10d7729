package shopify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/machinebox/graphql"

	"github.com/kimhabork/storefront-backend/pkg/config"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
	"github.com/kimhabork/storefront-backend/pkg/metrics"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	defaultTimeout    = 10 * time.Second
)

var errLoggerRequired = errors.New("shopify logger is required")

// Client is a stateless typed wrapper over the Storefront GraphQL API
// with centralized auth, logging, metrics, and error classification.
type Client struct {
	gql     *graphql.Client
	cfg     config.ShopifyConfig
	logg    *logger.Logger
	metrics *metrics.StorefrontClientMetrics
}

// Option customizes client construction.
type Option func(*Client)

// WithMetrics wires request metrics into the client.
func WithMetrics(m *metrics.StorefrontClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.gql = graphql.NewClient(c.cfg.Endpoint(), graphql.WithHTTPClient(httpClient))
	}
}

// NewClient validates the Storefront credentials and builds the wrapper.
// Missing or placeholder credentials surface as a configuration error so
// callers never mistake them for a transient outage.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "shopify credentials")
	}

	c := &Client{
		gql: graphql.NewClient(cfg.Endpoint(), graphql.WithHTTPClient(&http.Client{
			Timeout: defaultTimeout,
		})),
		cfg:  cfg,
		logg: logg,
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(context.Background(), "shopify client initialized")
	return c, nil
}

// run executes one GraphQL operation and decodes data into out.
// A non-empty top-level error list fails the call regardless of status.
func (c *Client) run(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	req := graphql.NewRequest(query)
	for key, value := range vars {
		req.Var(key, value)
	}
	req.Header.Set(accessTokenHeader, c.cfg.StorefrontAccessToken)
	req.Header.Set("Content-Type", "application/json")

	ctx = c.logg.WithOperation(ctx, operation)
	start := time.Now()
	err := c.gql.Run(ctx, req, out)
	elapsed := time.Since(start)

	if err != nil {
		classified := c.classify(operation, err)
		outcome := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(classified); typed != nil {
			outcome = string(typed.Code())
		}
		c.metrics.ObserveRequest(operation, outcome, elapsed)
		c.logg.Error(ctx, "storefront request failed", classified)
		return classified
	}

	c.metrics.ObserveRequest(operation, "ok", elapsed)
	c.logg.Debug(ctx, "storefront request complete")
	return nil
}

// classify maps transport-level failures onto the error taxonomy:
// network trouble, an explicit error list from the API, or a response
// body that did not decode into the expected shape.
func (c *Client) classify(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("shopify %s interrupted", operation))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("shopify %s unreachable", operation))
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("shopify %s unreachable", operation))
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "graphql:"):
		return pkgerrors.Wrap(pkgerrors.CodeRemoteAPI, err, fmt.Sprintf("shopify %s rejected", operation)).
			WithDetails(map[string]any{"operation": operation})
	case strings.Contains(msg, "decoding response"):
		return pkgerrors.Wrap(pkgerrors.CodeShape, err, fmt.Sprintf("shopify %s returned malformed payload", operation))
	default:
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("shopify %s failed", operation))
	}
}
