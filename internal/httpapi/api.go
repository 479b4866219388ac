package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"folio.dev/internal/auth"
	"folio.dev/internal/content"
	"folio.dev/internal/obs"
	"folio.dev/internal/policy"
)

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. All routes funnel through the policy gateway
// installed by Handler.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	verifier *auth.Verifier
	issuer   *auth.Issuer
	users    auth.UserStore
	engine   *policy.Engine
	content  *content.Service

	rateBurst    int
	ratePerSec   int
	maxBodyBytes int64
}

func New(rp ReadyProbe, version string, verifier *auth.Verifier, issuer *auth.Issuer, users auth.UserStore, engine *policy.Engine, svc *content.Service) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		verifier:   verifier,
		issuer:     issuer,
		users:      users,
		engine:     engine,
		content:    svc,

		rateBurst:    20,
		ratePerSec:   10,
		maxBodyBytes: 1 << 20,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// authentication
	a.mux.HandleFunc("/api/auth/register", a.Register)
	a.mux.HandleFunc("/api/auth/login", a.Login)
	a.mux.HandleFunc("/api/auth/refresh", a.Refresh)

	// content
	a.mux.HandleFunc("/api/blog", a.Blog)
	a.mux.HandleFunc("/api/project", a.Projects)
	a.mux.HandleFunc("/api/profile", a.Profiles)
	a.mux.HandleFunc("/api/contact", a.Contact)
	a.mux.HandleFunc("/api/chat-history", a.ChatHistory)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetLimits overrides the default rate limit and body size caps. Call
// before Handler.
func (a *API) SetLimits(burst, perSec int, maxBody int64) {
	if burst > 0 {
		a.rateBurst = burst
	}
	if perSec > 0 {
		a.ratePerSec = perSec
	}
	if maxBody > 0 {
		a.maxBodyBytes = maxBody
	}
}

// Handler assembles the middleware chain around the mux. The gateway sits
// innermost so every routed request is classified exactly once.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withGateway(h)
	h = obs.Instrument(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

// --- service handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "folio-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "folio-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
