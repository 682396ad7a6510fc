package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/mctech-dev/fss-go/component"
)

// Response is a successful reply. The caller owns Body and must close it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

func newResponse(resp *http.Response) *Response {
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
}

// Close closes the body. It is safe to call more than once.
func (r *Response) Close() error {
	if r.Body == nil {
		return nil
	}
	err := r.Body.Close()
	r.Body = nil
	return err
}

// Bytes reads the whole body and closes it
func (r *Response) Bytes() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// Text reads the whole body as text and closes it
func (r *Response) Text() (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSON decodes the body into v and closes it
func (r *Response) DecodeJSON(v any) error {
	if r.Body == nil {
		return fmt.Errorf("response body is empty")
	}
	defer r.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// ContentType returns the Content-Type header
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Metadata returns the user metadata carried by the response headers
func (r *Response) Metadata() map[string]string {
	return component.MetadataFromHeader(r.Header)
}
