package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/instrument"
	"github.com/aalemi-dev/reqscope/logger"
)

var errUnknownUser = errors.New("unknown user")

type serverConfig struct {
	Addr string `envconfig:"ADDR" default:":8080"`
}

func loadServerConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := envconfig.Process("DEMO", &cfg); err != nil {
		return serverConfig{}, fmt.Errorf("failed to load server config: %w", err)
	}
	return cfg, nil
}

// newRouter wraps each route, so chi has matched the route parameters by the
// time a request begins. Recoverer sits outside the wrappers and turns a
// re-raised panic into a 500.
func newRouter(w *instrument.Wrapper) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Method(http.MethodGet, "/users/{id}", w.Wrap(http.HandlerFunc(getUser)))
	r.Method(http.MethodPost, "/orders", w.WrapFunc(createOrder))
	r.Method(http.MethodGet, "/panic", w.Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("demo panic")
	})))
	return r
}

func getUser(w http.ResponseWriter, r *http.Request) {
	h := hub.FromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "id must be numeric", http.StatusBadRequest)
		return
	}
	h.Scope().SetTag("user.id", strconv.Itoa(id))

	err = hub.Trace(r.Context(), "db", "SELECT * FROM users WHERE id = $1", func(context.Context) error {
		if id > 100 {
			return errUnknownUser
		}
		return nil
	})
	if err != nil {
		h.CaptureException(err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "name": "user-" + strconv.Itoa(id)})
}

// createOrder reports failure through its error, which the wrapper captures.
func createOrder(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		SKU string `json:"sku"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return fmt.Errorf("decode order: %w", err)
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sku": body.SKU, "status": "accepted"})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func registerServer(lc fx.Lifecycle, cfg serverConfig, handler http.Handler, log *logger.LoggerClient) {
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
			}
			log.Info("demo server listening", nil, map[string]interface{}{"address": cfg.Addr})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("demo server failed", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
