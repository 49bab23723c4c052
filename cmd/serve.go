package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for the lead search UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type searchRequest struct {
	Term       string   `json:"term"`
	Facets     []string `json:"facets"`
	Location   string   `json:"location"`
	MaxResults int      `json:"max_results"`
	Details    bool     `json:"details"`
	Emails     bool     `json:"emails"`
	Save       bool     `json:"save"`
}

func newRouter(env *pipelineEnv) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/search", func(w http.ResponseWriter, req *http.Request) {
		var body searchRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Location == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location is required"})
			return
		}

		res, err := env.Pipeline.Run(req.Context(), pipeline.Options{
			Term:         body.Term,
			Facets:       body.Facets,
			Location:     body.Location,
			MaxResults:   clampMaxResults(body.MaxResults),
			RadiusMeters: cfg.Places.RadiusMeters,
			WithDetails:  body.Details || body.Emails,
			WithEmails:   body.Emails,
		})
		if err != nil {
			zap.L().Error("api search failed", zap.String("location", body.Location), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}

		if body.Save {
			inserted, updated, err := env.Store.SaveAll(req.Context(), res.Records)
			if err != nil {
				zap.L().Error("api save failed", zap.Error(err))
			} else {
				zap.L().Info("api search saved", zap.Int("inserted", inserted), zap.Int("updated", updated))
			}
			run := &model.SearchRun{
				Term:        body.Term,
				Location:    body.Location,
				Facets:      body.Facets,
				QueryCount:  len(res.Queries),
				ResultCount: len(res.Records),
				EmailCount:  res.EmailCount,
			}
			if err := env.Store.RecordSearch(req.Context(), run); err != nil {
				zap.L().Warn("api record search failed", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, res)
	})

	r.Post("/api/leads/save", func(w http.ResponseWriter, req *http.Request) {
		var recs []model.BusinessRecord
		if err := json.NewDecoder(req.Body).Decode(&recs); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		inserted, updated, err := env.Store.SaveAll(req.Context(), recs)
		if err != nil {
			zap.L().Error("api save leads failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": inserted, "updated": updated})
	})

	r.Get("/api/leads", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		leads, err := env.Store.ListLeads(req.Context(), store.LeadFilter{
			WithEmailOnly: q.Get("emails_only") == "true",
			WorldwideOnly: q.Get("worldwide_only") == "true",
			Limit:         limit,
		})
		if err != nil {
			zap.L().Error("api list leads failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}
		if leads == nil {
			leads = []model.LeadRow{}
		}
		writeJSON(w, http.StatusOK, leads)
	})

	r.Get("/api/stats", func(w http.ResponseWriter, req *http.Request) {
		stats, err := env.Store.Stats(req.Context())
		if err != nil {
			zap.L().Error("api stats failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats failed"})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Get("/api/searches", func(w http.ResponseWriter, req *http.Request) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		runs, err := env.Store.ListSearches(req.Context(), limit)
		if err != nil {
			zap.L().Error("api list searches failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}
		if runs == nil {
			runs = []model.SearchRun{}
		}
		writeJSON(w, http.StatusOK, runs)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
