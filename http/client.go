package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/mctech-dev/fss-go"
	"github.com/mctech-dev/fss-go/component"
	"github.com/mctech-dev/fss-go/config"
	"github.com/mctech-dev/fss-go/input"
	"github.com/sirupsen/logrus"
)

// DefaultURLExpiration is the lifetime of URLs returned by SignURL when
// no WithExpires option is given
const DefaultURLExpiration = 15000 * time.Second

// Client performs signed operations against a single bucket. It is
// immutable and safe for concurrent use if its Doer is.
type Client struct {
	cfg       config.Config
	endpoints *fss.Endpoints
	doer      Doer
	clock     fss.Clock
	logger    logrus.FieldLogger
}

// ObjectMeta is the result of Head
type ObjectMeta struct {
	StatusCode int

	// Meta holds the user metadata, with the "x-fss-meta-" prefix
	// stripped from the names
	Meta map[string]string

	// Header holds every response header
	Header map[string]string
}

// NewClient validates cfg and creates a Client
func NewClient(cfg config.Config, options ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	endpoints, err := fss.NewEndpoints(cfg.PublicEndpoint, cfg.PrivateEndpoint, cfg.Internal)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		endpoints: endpoints,
		doer:      http.DefaultClient,
		clock:     fss.SystemClock{},
		logger:    discardLogger(),
	}

	for _, opt := range options {
		switch opt.Ident() {
		case identDoer{}:
			if d, ok := opt.Value().(Doer); ok && d != nil {
				c.doer = d
			}
		case identClock{}:
			if clock, ok := opt.Value().(fss.Clock); ok && clock != nil {
				c.clock = clock
			}
		case identLogger{}:
			if l, ok := opt.Value().(logrus.FieldLogger); ok && l != nil {
				c.logger = l
			}
		}
	}
	return c, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Bucket returns the name of the bucket the client operates on
func (c *Client) Bucket() string {
	return c.cfg.BucketName
}

type dispatch struct {
	op            input.Operation
	key           string
	body          io.Reader
	contentType   string
	contentLength int64
	metadata      map[string]string
	header        http.Header
}

func (c *Client) send(ctx context.Context, d dispatch) (*http.Response, error) {
	resource := fss.Resource(c.cfg.BucketName, d.key)

	def, err := fss.Decide(d.op, resource, d.contentType, d.metadata, fss.WithClock(c.clock))
	if err != nil {
		return nil, err
	}

	signed, err := fss.SignDefinition(def, c.cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	target, err := fss.AssembleForDispatch(signed, resource, c.endpoints.Default(), d.op, d.metadata, c.cfg.AccessKeyID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, target.Method.String(), target.URL.String(), d.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// assigned directly so metadata names keep their casing
	for name, values := range target.Header {
		req.Header[name] = values
	}
	for name, values := range d.header {
		req.Header[name] = values
	}
	if d.contentType != "" {
		req.Header.Set("Content-Type", d.contentType)
	}
	req.Header.Set("Accept-Language", "zh-CN")
	if d.contentLength > 0 {
		req.ContentLength = d.contentLength
	}
	if d.body == nil && (d.op == input.PUT || d.op == input.DELETE) {
		req.Body = http.NoBody
		req.ContentLength = 0
	}

	log := c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	})
	log.Debug("sending request")

	resp, err := c.doer.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("failed to send %s request: %w", req.Method, err)
	}
	log.WithField("status", resp.StatusCode).Debug("received response")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newRequestError(resp)
	}
	return resp, nil
}

// Get downloads an object
func (c *Client) Get(ctx context.Context, key string) (*Response, error) {
	resp, err := c.send(ctx, dispatch{op: input.GET, key: key})
	if err != nil {
		return nil, err
	}
	return newResponse(resp), nil
}

// Put uploads body as key. The object is announced as an attachment
// named after the file name, or after the key.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, options ...PutOption) (*Response, error) {
	d := dispatch{
		op:     input.PUT,
		key:    key,
		body:   body,
		header: make(http.Header),
	}

	fileName := key
	for _, opt := range options {
		switch opt.Ident() {
		case identFileName{}:
			if name := opt.Value().(string); name != "" {
				fileName = name
			}
		case identMetadata{}:
			metadata, err := component.MetaHeaders(opt.Value().(map[string]string))
			if err != nil {
				return nil, err
			}
			d.metadata = metadata
		case identContentType{}:
			d.contentType = opt.Value().(string)
		case identContentLength{}:
			n := opt.Value().(int64)
			if n <= 0 {
				return nil, fmt.Errorf("content length must be positive, got %d", n)
			}
			d.contentLength = n
		}
	}

	d.header[component.ContentDisposition] = []string{contentDisposition(fileName)}

	resp, err := c.send(ctx, d)
	if err != nil {
		return nil, err
	}
	return newResponse(resp), nil
}

func contentDisposition(name string) string {
	return "attachment;filename=" + url.QueryEscape(path.Base(filepath.ToSlash(name)))
}

// Delete removes an object
func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.send(ctx, dispatch{op: input.DELETE, key: key})
	if err != nil {
		return err
	}
	return newResponse(resp).Close()
}

// Copy copies fromKey to toKey inside the bucket
func (c *Client) Copy(ctx context.Context, toKey, fromKey string) (*Response, error) {
	resp, err := c.send(ctx, dispatch{
		op:  input.PUT,
		key: toKey,
		metadata: map[string]string{
			component.CopySource: fss.Resource(c.cfg.BucketName, fromKey),
		},
	})
	if err != nil {
		return nil, err
	}
	return newResponse(resp), nil
}

// Head fetches the headers of an object
func (c *Client) Head(ctx context.Context, key string) (*ObjectMeta, error) {
	resp, err := c.send(ctx, dispatch{op: input.HEAD, key: key})
	if err != nil {
		return nil, err
	}
	r := newResponse(resp)
	defer r.Close()

	return &ObjectMeta{
		StatusCode: r.StatusCode,
		Meta:       r.Metadata(),
		Header:     component.FlattenHeader(r.Header),
	}, nil
}

// ObjectMetadata returns every response header of a HEAD request
func (c *Client) ObjectMetadata(ctx context.Context, key string) (map[string]string, error) {
	meta, err := c.Head(ctx, key)
	if err != nil {
		return nil, err
	}
	return meta.Header, nil
}

// SignURL returns a presigned GET URL for key on the public endpoint.
// The URL expires after DefaultURLExpiration unless fss.WithExpires
// says otherwise.
func (c *Client) SignURL(key string, options ...fss.SignOption) (string, error) {
	resource := fss.Resource(c.cfg.BucketName, key)

	options = append([]fss.SignOption{
		fss.WithClock(c.clock),
		fss.WithExpires(DefaultURLExpiration),
	}, options...)

	def, err := fss.Decide(input.GET, resource, "", nil, options...)
	if err != nil {
		return "", err
	}

	signed, err := fss.SignDefinition(def, c.cfg.AccessKeySecret)
	if err != nil {
		return "", err
	}
	return fss.AssembleForPresignedURL(signed, resource, c.endpoints.Public(), c.cfg.AccessKeyID)
}

// ObjectURL returns the unsigned URL of key
func (c *Client) ObjectURL(key string) string {
	return fss.ObjectURL(fss.Resource(c.cfg.BucketName, key), c.endpoints.Default())
}

// Transport returns a SigningTransport for the client's credentials,
// sending through base. A nil base means http.DefaultTransport.
func (c *Client) Transport(base http.RoundTripper) *SigningTransport {
	t := NewSigningTransport(c.cfg.AccessKeyID, c.cfg.AccessKeySecret)
	if base != nil {
		t.Transport = base
	}
	t.BasePath = c.endpoints.Default().Path
	t.Clock = c.clock
	return t
}

// HTTPClient returns an http.Client that signs every request it sends.
// Requests must target the client's default endpoint.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c.Transport(nil)}
}
