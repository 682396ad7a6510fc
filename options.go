package fss

import (
	"time"

	"github.com/lestrrat-go/option"
)

type Option = option.Interface

// SignOption configures how Decide builds a signing definition
type SignOption interface {
	Option
	signOption()
}

type signOption struct {
	Option
}

func (signOption) signOption() {}

// WithClock returns a SignOption that sets the clock used for the
// signing date and for computing the absolute expiry
func WithClock(clock Clock) SignOption {
	return signOption{option.New(identClock{}, clock)}
}

// WithExpires returns a SignOption that switches to presign mode. The
// absolute expiry is the current time plus d, truncated to whole seconds.
func WithExpires(d time.Duration) SignOption {
	return signOption{option.New(identExpires{}, d)}
}

// WithProcess returns a SignOption that attaches a processing directive,
// such as "image/resize,w_100" or "video/snapshot,t_7000,f_jpg"
func WithProcess(directive string) SignOption {
	return signOption{option.New(identProcess{}, directive)}
}

// WithResponseHeader returns a SignOption that asks the service to
// override a response header on download. The name is lowercased and
// prefixed with "response-"; it is not checked against a list of
// known headers.
func WithResponseHeader(name, value string) SignOption {
	return signOption{option.New(identResponseHeader{}, responseHeader{name: name, value: value})}
}

// WithResponseHeaders is WithResponseHeader for every entry of m
func WithResponseHeaders(m map[string]string) SignOption {
	return signOption{option.New(identResponseHeaders{}, m)}
}

type responseHeader struct {
	name  string
	value string
}

type identClock struct{}

func (identClock) String() string { return "WithClock" }

type identExpires struct{}

func (identExpires) String() string { return "WithExpires" }

type identProcess struct{}

func (identProcess) String() string { return "WithProcess" }

type identResponseHeader struct{}

func (identResponseHeader) String() string { return "WithResponseHeader" }

type identResponseHeaders struct{}

func (identResponseHeaders) String() string { return "WithResponseHeaders" }
