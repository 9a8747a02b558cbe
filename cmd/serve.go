package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/relay"
	"github.com/propply/compliance-engine/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compliance report HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Aggregator, env.Store, env.Relay),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// reporter is the aggregation entry point the HTTP layer depends on.
type reporter interface {
	Report(ctx context.Context, address, boroughHint string) (*model.ComplianceRecord, error)
}

func newRouter(rep reporter, st store.Store, rl *relay.Relay) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/report", handleReport(rep, st, rl))
	r.Get("/api/records/{id}", handleGetRecord(st))
	r.Get("/api/records", handleListRecords(st))

	return r
}

type reportRequest struct {
	Address string `json:"address"`
	Borough string `json:"borough,omitempty"`
	Save    bool   `json:"save,omitempty"`
	Notify  bool   `json:"notify,omitempty"`
}

func handleReport(rep reporter, st store.Store, rl *relay.Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Address == "" {
			writeError(w, http.StatusBadRequest, "address is required")
			return
		}

		record, err := rep.Report(r.Context(), req.Address, req.Borough)
		if err != nil {
			zap.L().Error("api: report failed",
				zap.String("address", req.Address),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "report failed")
			return
		}

		if req.Save && st != nil {
			if err := st.SaveRecord(r.Context(), record); err != nil {
				zap.L().Error("api: save record failed",
					zap.String("id", record.ID),
					zap.Error(err),
				)
			}
		}
		if req.Notify && rl != nil {
			if _, err := rl.Forward(r.Context(), record, map[string]string{"request_id": middleware.GetReqID(r.Context())}); err != nil {
				zap.L().Warn("api: webhook forward failed", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, record)
	}
}

func handleGetRecord(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusNotImplemented, "no store configured")
			return
		}
		record, err := st.GetRecord(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, "record not found")
				return
			}
			zap.L().Error("api: get record failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func handleListRecords(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusNotImplemented, "no store configured")
			return
		}
		filter := store.RecordFilter{
			BIN: r.URL.Query().Get("bin"),
			BBL: r.URL.Query().Get("bbl"),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		records, err := st.ListRecords(r.Context(), filter)
		if err != nil {
			zap.L().Error("api: list records failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		if records == nil {
			records = []model.ComplianceRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
