package http

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/blackmagic"
)

// ErrorDocument is the flat key/value error body returned by the service
type ErrorDocument map[string]string

// Code returns the "Code" field
func (d ErrorDocument) Code() string {
	return d["Code"]
}

// Message returns the "Message" field
func (d ErrorDocument) Message() string {
	return d["Message"]
}

// Get assigns the named field to dst, which must be a pointer to a type
// a string can be assigned to
func (d ErrorDocument) Get(name string, dst any) error {
	v, ok := d[name]
	if !ok {
		return fmt.Errorf("field %q not found in error document", name)
	}
	return blackmagic.AssignIfCompatible(dst, v)
}

// RequestError is returned for every response with a status of 400 or
// above. Use errors.As to get at it.
type RequestError struct {
	StatusCode int
	Header     http.Header
	Document   ErrorDocument

	// Body is the raw response body, kept when it could not be parsed
	Body []byte
}

// Error returns the service's message verbatim, or a description of
// the status when there is none
func (e *RequestError) Error() string {
	if msg := e.Document.Message(); msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Code returns the service error code, if any
func (e *RequestError) Code() string {
	return e.Document.Code()
}

// newRequestError consumes and closes the body of a failed response
func newRequestError(resp *http.Response) *RequestError {
	reqErr := &RequestError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Document:   ErrorDocument{},
	}
	if resp.Body == nil {
		return reqErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return reqErr
	}

	doc, err := ParseErrorDocument(resp.Header.Get("Content-Type"), body)
	if err != nil {
		reqErr.Body = body
		return reqErr
	}
	reqErr.Document = doc
	return reqErr
}

// ParseErrorDocument parses an error body. JSON bodies (by content type,
// or by a leading '{') must be an object; its top-level fields become
// entries. Anything else is read as XML, where every child element of
// the root becomes an entry holding its text content.
func ParseErrorDocument(contentType string, body []byte) (ErrorDocument, error) {
	trimmed := bytes.TrimSpace(body)
	if strings.Contains(strings.ToLower(contentType), "json") || bytes.HasPrefix(trimmed, []byte("{")) {
		return parseJSONErrorDocument(trimmed)
	}
	return parseXMLErrorDocument(trimmed)
}

func parseJSONErrorDocument(body []byte) (ErrorDocument, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode JSON error document: %w", err)
	}

	doc := make(ErrorDocument, len(fields))
	for name, value := range fields {
		switch v := value.(type) {
		case nil:
			doc[name] = ""
		case string:
			doc[name] = v
		case json.Number:
			doc[name] = v.String()
		case bool:
			doc[name] = fmt.Sprint(v)
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field %q: %w", name, err)
			}
			doc[name] = string(raw)
		}
	}
	return doc, nil
}

func parseXMLErrorDocument(body []byte) (ErrorDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	doc := make(ErrorDocument)

	var (
		depth   int
		sawRoot bool
		name    string
		text    strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode XML error document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
			}
			if depth == 2 {
				name = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth >= 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				doc[name] = text.String()
			}
			depth--
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("error document has no root element")
	}
	return doc, nil
}
