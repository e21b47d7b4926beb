package jmx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jmxwatch/jmxwatch/internal/config"
)

const requestTimeout = 10 * time.Second

// JolokiaClient reaches a JVM's MBean server through its Jolokia HTTP
// endpoint, the standard JSON bridge to JMX for non-JVM clients.
type JolokiaClient struct{}

// NewClient returns a Client speaking the Jolokia protocol.
func NewClient() *JolokiaClient { return &JolokiaClient{} }

// Connect builds an HTTP client for the target and probes the endpoint with
// a version request so unreachable or misconfigured targets fail here, not
// midway through a poll cycle.
func (c *JolokiaClient) Connect(ctx context.Context, t config.Target) (Conn, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if t.Username != "" {
		transport = &basicAuthRoundTripper{base: transport, username: t.Username, password: t.Password}
	}

	conn := &jolokiaConn{
		endpoint: endpointFor(t),
		client:   &http.Client{Transport: transport, Timeout: requestTimeout},
	}

	if _, err := conn.execute(ctx, jolokiaRequest{Type: "version"}); err != nil {
		return nil, fmt.Errorf("jmx: connect %s: %w", conn.endpoint, err)
	}
	return conn, nil
}

// endpointFor returns the target's Jolokia URL: the configured override, or
// http://<host>:<port>/jolokia.
func endpointFor(t config.Target) string {
	if t.URL != "" {
		return t.URL
	}
	return fmt.Sprintf("http://%s:%d/jolokia", t.Host, t.Port)
}

// basicAuthRoundTripper injects credentials into every outgoing request.
type basicAuthRoundTripper struct {
	base               http.RoundTripper
	username, password string
}

func (t *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}

// jolokiaRequest is the POST body of one Jolokia operation.
type jolokiaRequest struct {
	Type      string `json:"type"`
	MBean     string `json:"mbean,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Path      string `json:"path,omitempty"`
}

// jolokiaResponse is the envelope every Jolokia reply arrives in.
type jolokiaResponse struct {
	Status int             `json:"status"`
	Value  json.RawMessage `json:"value"`
	Error  string          `json:"error"`
}

type jolokiaConn struct {
	endpoint string
	client   *http.Client
}

// execute POSTs one request and unwraps the response envelope.
func (c *jolokiaConn) execute(ctx context.Context, r jolokiaRequest) (json.RawMessage, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected http status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope jolokiaResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Status != http.StatusOK {
		return nil, fmt.Errorf("%s operation failed: %s (status %d)", r.Type, envelope.Error, envelope.Status)
	}
	return envelope.Value, nil
}

// Find resolves an object-name pattern via a Jolokia search. Names are
// sorted so a given configuration always yields the same sample order.
func (c *jolokiaConn) Find(ctx context.Context, pattern string) ([]Object, error) {
	raw, err := c.execute(ctx, jolokiaRequest{Type: "search", MBean: pattern})
	if err != nil {
		return nil, fmt.Errorf("jmx: search %q: %w", pattern, err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("jmx: search %q: decode result: %w", pattern, err)
	}
	sort.Strings(names)

	objects := make([]Object, 0, len(names))
	for _, name := range names {
		objects = append(objects, &jolokiaObject{conn: c, name: name})
	}
	return objects, nil
}

func (c *jolokiaConn) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

type jolokiaObject struct {
	conn *jolokiaConn
	name string
}

func (o *jolokiaObject) Identifier() string { return o.name }

// AttributeNames lists the object's readable attributes via a scoped
// Jolokia list request.
func (o *jolokiaObject) AttributeNames(ctx context.Context) ([]string, error) {
	domain, properties, _ := strings.Cut(o.name, ":")
	path := escapeListPath(domain) + "/" + escapeListPath(properties)

	raw, err := o.conn.execute(ctx, jolokiaRequest{Type: "list", Path: path})
	if err != nil {
		return nil, fmt.Errorf("jmx: list %q: %w", o.name, err)
	}

	var listing struct {
		Attr map[string]json.RawMessage `json:"attr"`
	}
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("jmx: list %q: decode result: %w", o.name, err)
	}

	names := make([]string, 0, len(listing.Attr))
	for name := range listing.Attr {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read retrieves one attribute. json.Unmarshal into any gives float64 for
// numbers and map[string]any for composite values, which is exactly the
// shape the classifier expects.
func (o *jolokiaObject) Read(ctx context.Context, attribute string) (any, error) {
	raw, err := o.conn.execute(ctx, jolokiaRequest{Type: "read", MBean: o.name, Attribute: attribute})
	if err != nil {
		return nil, fmt.Errorf("jmx: read %s from %q: %w", attribute, o.name, err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("jmx: read %s from %q: decode result: %w", attribute, o.name, err)
	}
	return v, nil
}

// escapeListPath escapes one segment of a Jolokia list path: "!" first,
// then "/", per the protocol's path escaping rules.
func escapeListPath(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	return strings.ReplaceAll(s, "/", "!/")
}
