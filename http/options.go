package http

import (
	"github.com/lestrrat-go/option"
	"github.com/mctech-dev/fss-go"
	"github.com/sirupsen/logrus"
)

type Option = option.Interface

// ClientOption configures NewClient
type ClientOption interface {
	Option
	clientOption()
}

type clientOption struct {
	Option
}

func (clientOption) clientOption() {}

// PutOption configures a single Client.Put call
type PutOption interface {
	Option
	putOption()
}

type putOption struct {
	Option
}

func (putOption) putOption() {}

type identDoer struct{}

func (identDoer) String() string { return "WithDoer" }

type identClock struct{}

func (identClock) String() string { return "WithClock" }

type identLogger struct{}

func (identLogger) String() string { return "WithLogger" }

type identFileName struct{}

func (identFileName) String() string { return "WithFileName" }

type identMetadata struct{}

func (identMetadata) String() string { return "WithMetadata" }

type identContentType struct{}

func (identContentType) String() string { return "WithContentType" }

type identContentLength struct{}

func (identContentLength) String() string { return "WithContentLength" }

// WithDoer sets the transport used to send requests. The default is
// http.DefaultClient.
func WithDoer(doer Doer) ClientOption {
	return clientOption{option.New(identDoer{}, doer)}
}

// WithClock sets the clock used for the Date header and for the expiry
// of presigned URLs
func WithClock(clock fss.Clock) ClientOption {
	return clientOption{option.New(identClock{}, clock)}
}

// WithLogger sets the logger dispatches are reported to
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return clientOption{option.New(identLogger{}, logger)}
}

// WithFileName sets the file name announced in the content-disposition
// header. Only the base name is used. Defaults to the key.
func WithFileName(name string) PutOption {
	return putOption{option.New(identFileName{}, name)}
}

// WithMetadata attaches user metadata to the object. Keys are sent
// with the "x-fss-meta-" prefix.
func WithMetadata(metadata map[string]string) PutOption {
	return putOption{option.New(identMetadata{}, metadata)}
}

// WithContentType sets the Content-Type of the upload
func WithContentType(contentType string) PutOption {
	return putOption{option.New(identContentType{}, contentType)}
}

// WithContentLength sets the length of the body. It must be positive.
func WithContentLength(n int64) PutOption {
	return putOption{option.New(identContentLength{}, n)}
}
