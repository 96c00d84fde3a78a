package transport

import (
	"crypto/tls"
	"net/http"
)

// senderOptions configures the HTTP sender an httpSender wraps.
type senderOptions struct {
	client  *http.Client
	tlsConf *tls.Config
	h2c     bool
}

// Option configures a Sender constructed by NewHTTPSender.
type Option func(*senderOptions)

// WithHTTPClient overrides the *http.Client used to issue requests, taking
// precedence over NewHTTPSender's client argument. When neither is set,
// NewHTTPSender builds one configured per the other options.
func WithHTTPClient(c *http.Client) Option {
	return func(o *senderOptions) { o.client = c }
}

// WithTLSConfig sets the TLS client configuration used when speaking
// gRPC-Web over HTTPS.
func WithTLSConfig(conf *tls.Config) Option {
	return func(o *senderOptions) { o.tlsConf = conf }
}

// WithH2C upgrades the sender's transport to HTTP/2 cleartext
// (golang.org/x/net/http2.Transport with AllowHTTP/DialTLSContext set to a
// plain TCP dial), for talking to gRPC-Web proxies that front h2c directly
// instead of behind TLS termination.
func WithH2C() Option {
	return func(o *senderOptions) { o.h2c = true }
}
