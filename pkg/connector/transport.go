package connector

import (
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const maxRedirects = 10

// NewHTTPClient creates the HTTP client used by connectors from cfg.
//
// Keep-alives are disabled unless cfg.KeepAlive is set, so each request
// owns its connection and releases it before Send returns.
func NewHTTPClient(cfg HTTPConfig, logger *zap.Logger) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		DisableKeepAlives:     !cfg.KeepAlive,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Compression is negotiated by the connector itself, see EnableGzip.
		DisableCompression: true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn("failed to configure HTTP/2", zap.Error(err))
		} else {
			logger.Debug("HTTP/2 enabled")
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return afserrors.New(afserrors.ErrorTypeExecution, "too many redirects").
					WithDetail("url", req.URL.String())
			}
			return nil
		},
	}
}

// gzipBody wraps r when the reply was gzip encoded.
type gzipBody struct {
	*gzip.Reader
	body io.Closer
}

func (g *gzipBody) Close() error {
	gzErr := g.Reader.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return gzErr
}

func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp.Body, nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return &gzipBody{Reader: zr, body: resp.Body}, nil
}
