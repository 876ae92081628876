package prtg

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/prtgctl/config"
)

// retryStatusCodes is the set of response codes worth retrying on GET.
var retryStatusCodes = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client talks to a single PRTG server. It merges the API token into every
// request, applies the retry policy to GET requests and classifies failures
// into the package error taxonomy. A Client is safe to reuse across calls;
// it holds no state beyond the connection profile captured at construction.
type Client struct {
	serverURL string
	token     string
	verifySSL bool

	retry  *retryablehttp.Client
	plain  *http.Client
	logger zerolog.Logger
}

// NewClient creates a client from a resolved connection profile.
func NewClient(profile *config.ConnectionProfile, logger zerolog.Logger, opts ...Option) *Client {
	settings := defaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !profile.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	retry := retryablehttp.NewClient()
	retry.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   settings.timeout,
	}
	retry.RetryMax = settings.retryMax
	retry.RetryWaitMin = settings.retryWaitMin
	retry.RetryWaitMax = settings.retryWaitMax
	retry.Logger = nil
	retry.CheckRetry = checkRetry
	// Status classification happens in this package; never turn the final
	// response into a retryablehttp error string.
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		serverURL: profile.ServerURL,
		token:     profile.APIToken,
		verifySSL: profile.VerifySSL,
		retry:     retry,
		plain: &http.Client{
			Transport: transport,
			Timeout:   settings.timeout,
		},
		logger: logger,
	}
}

// checkRetry retries GET requests on transient status codes and transport
// failures. Certificate problems never resolve themselves on retry.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return !isCertError(err), nil
	}
	if resp.Request != nil && resp.Request.Method != http.MethodGet {
		return false, nil
	}
	return retryStatusCodes[resp.StatusCode], nil
}

// authParams returns the caller's parameters with the API token merged in.
// The token always wins over a caller-supplied apitoken value.
func (c *Client) authParams(params url.Values) url.Values {
	merged := url.Values{}
	for key, values := range params {
		merged[key] = append([]string(nil), values...)
	}
	merged.Set("apitoken", c.token)
	return merged
}

// Get performs an authenticated GET against {server}/api/{endpoint} and
// returns the raw response body. HTTP statuses are classified into the
// error taxonomy; transient codes have already been retried.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/api/%s?%s", c.serverURL, endpoint, c.authParams(params).Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("endpoint", endpoint).Msg("PRTG API request")

	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthenticationError{Message: "authentication failed, check API token"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Message: fmt.Sprintf("resource not found: %s", endpoint)}
	case resp.StatusCode >= 400:
		return nil, newAPIError(resp.StatusCode, string(body))
	}

	return body, nil
}

// HistoricData fetches historicdata.{csv|json} for a sensor. It shares the
// classification rules of Get with one addition: the server enforces a
// 5 requests/minute limit on this endpoint, so 429 gets its own message.
func (c *Client) HistoricData(ctx context.Context, format string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("historicdata.%s", format)
	requestURL := fmt.Sprintf("%s/api/%s?%s", c.serverURL, endpoint, c.authParams(params).Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("endpoint", endpoint).Msg("PRTG historic data request")

	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "rate limit exceeded (5 requests per minute for historic data), wait 60 seconds before trying again",
		}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthenticationError{Message: "authentication failed, check API token"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Message: fmt.Sprintf("sensor not found: %s", params.Get("id"))}
	case resp.StatusCode >= 400:
		return nil, newAPIError(resp.StatusCode, string(body))
	}

	return body, nil
}

// MoveObject moves a device to a different group via moveobjectnow.htm.
// That endpoint predates the JSON API: it lives outside /api/, answers in
// plain text, and a successful move is signalled by "ok" somewhere in the
// body. This request is never retried.
func (c *Client) MoveObject(ctx context.Context, objectID, targetGroupID string) error {
	params := url.Values{}
	params.Set("id", objectID)
	params.Set("targetid", targetGroupID)
	requestURL := fmt.Sprintf("%s/moveobjectnow.htm?%s", c.serverURL, c.authParams(params).Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("id", objectID).Str("targetid", targetGroupID).Msg("PRTG move request")

	resp, err := c.plain.Do(req)
	if err != nil {
		return c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthenticationError{Message: "authentication failed, check API token"}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: fmt.Sprintf("device or target group not found: %s -> %s", objectID, targetGroupID)}
	case resp.StatusCode >= 400:
		return newAPIError(resp.StatusCode, string(body))
	}

	if !strings.Contains(strings.ToLower(string(body)), "ok") {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected response from move operation: %s", strings.TrimSpace(string(body))),
		}
	}
	return nil
}

// Ping issues a minimal one-device query to verify connectivity and
// credentials.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("content", "devices")
	params.Set("count", "1")
	_, err := c.Get(ctx, "table.json", params)
	return err
}

// classifyTransportError maps transport-level failures onto TransportError
// with a message that tells the user what to do about it.
func (c *Client) classifyTransportError(err error) error {
	var alreadyClassified *TransportError
	if errors.As(err, &alreadyClassified) {
		return alreadyClassified
	}

	switch {
	case isCertError(err):
		return &TransportError{
			Message: fmt.Sprintf("SSL verification failed for %s, use --no-verify-ssl to disable verification: %v", c.serverURL, err),
			Err:     err,
		}
	case isTimeout(err):
		return &TransportError{
			Message: fmt.Sprintf("request timeout: %v", err),
			Err:     err,
		}
	case isConnectError(err):
		return &TransportError{
			Message: fmt.Sprintf("connection error: unable to connect to %s: %v", c.serverURL, err),
			Err:     err,
		}
	default:
		return &TransportError{
			Message: fmt.Sprintf("request failed: %v", err),
			Err:     err,
		}
	}
}

func isCertError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
