package upstream

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/metrics"
)

// Proxy forwards document-screen calls of the browser to the EDI API.
// A request for <prefix>/x is sent to <base>/api/x.
type Proxy struct {
	rp     *httputil.ReverseProxy
	prefix string
	log    zerolog.Logger
}

// NewProxy builds a proxy to baseURL. onUnauthorized is called with every
// 401 answer before it is passed on, so the caller can drop the session.
func NewProxy(baseURL, prefix string, log zerolog.Logger, onUnauthorized func(*http.Response)) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	p := &Proxy{prefix: strings.TrimRight(prefix, "/"), log: log}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = strings.TrimRight(target.Path, "/") + "/api" + strings.TrimPrefix(pr.In.URL.Path, p.prefix)
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			// Portal cookies stay with the portal.
			pr.Out.Header.Del("Cookie")
		},
		ModifyResponse: func(resp *http.Response) error {
			if resp.StatusCode == http.StatusUnauthorized {
				metrics.ProxyUnauthorizedTotal.Inc()
				if onUnauthorized != nil {
					onUnauthorized(resp)
				}
			}
			return nil
		},
		ErrorHandler: p.errorHandler,
	}
	return p, nil
}

// Forward sends r to the EDI API with the given bearer token.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, token string) {
	r.Header.Del("Authorization")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("proxy error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":"EDI API unavailable"}`))
}
