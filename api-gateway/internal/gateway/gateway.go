package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StorefrontSvcURL string
	StaticDir        string
}

// hop-by-hop headers are never forwarded in either direction
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

type Gateway struct {
	config Config
	client HTTPClient
	logger zerolog.Logger
}

func NewGateway(config Config, client HTTPClient, logger zerolog.Logger) *Gateway {
	config.StorefrontSvcURL = strings.TrimRight(config.StorefrontSvcURL, "/")
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// StorefrontHealth reports the storefront service's own health check.
func (g *Gateway) StorefrontHealth(w http.ResponseWriter, r *http.Request) {
	g.ProxyRequest(w, r, "/health")
}

func (g *Gateway) ProxyAPI(w http.ResponseWriter, r *http.Request) {
	g.ProxyRequest(w, r, r.URL.Path)
}

// ProxyRequest forwards r to the storefront service under upstreamPath,
// keeping method, query, body and end-to-end headers.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, upstreamPath string) {
	url := g.config.StorefrontSvcURL + upstreamPath
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	logger := g.logger.With().Str("method", r.Method).Str("path", r.URL.Path).Str("upstream", url).Logger()

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build upstream request")
		writeError(w, http.StatusInternalServerError, "Failed to build upstream request")
		return
	}
	req.ContentLength = r.ContentLength
	copyHeaders(req.Header, r.Header)
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.Header.Set("X-Forwarded-For", host)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("storefront service unreachable")
		writeError(w, http.StatusBadGateway, "Storefront service is unavailable, please retry shortly.")
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Warn().Err(err).Msg("failed to copy upstream response")
	}
	logger.Debug().Int("status", resp.StatusCode).Msg("proxied")
}

// ServeStatic serves the SPA bundle. Paths that are not files fall back to
// index.html so client-side routes survive a reload.
func (g *Gateway) ServeStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	file := filepath.Join(g.config.StaticDir, filepath.FromSlash(name))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		http.ServeFile(w, r, file)
		return
	}

	index := filepath.Join(g.config.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		g.logger.Error().Err(err).Str("static_dir", g.config.StaticDir).Msg("index.html missing")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.HandleFunc("/health/storefront", g.StorefrontHealth).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.ProxyAPI)
	r.PathPrefix("/").HandlerFunc(g.ServeStatic).Methods("GET", "HEAD")
	return r
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
