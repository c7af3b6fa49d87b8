package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prism-insight/prism-cli/internal/config"
	"github.com/prism-insight/prism-cli/internal/store"
	"github.com/prism-insight/prism-cli/pkg/llm"
)

var servePort int

// apiServer bundles the dependencies the HTTP handlers need. A nil llm client
// means summaries come from the template fallback.
type apiServer struct {
	store          store.Store
	llm            llm.Client
	analysisCfg    config.AnalysisConfig
	llmTimeout     time.Duration
	maxUploadBytes int64
}

// buildRouter wires all routes onto a chi router. Separated from serveCmd so
// tests can drive the full HTTP surface with httptest.
func buildRouter(s *apiServer, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/datasets", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/", s.handleListDatasets)
		// Static segments must come before the {datasetID} wildcard.
		r.Get("/compare", s.handleCompare)
		r.Get("/compare/analysis", s.handleCompareAnalysis)
		r.Get("/{datasetID}", s.handleGetDataset)
		r.Delete("/{datasetID}", s.handleDeleteDataset)
		r.Get("/{datasetID}/stats", s.handleStats)
		r.Get("/{datasetID}/analysis", s.handleAnalysis)
	})

	return r
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dataset API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		client, err := initLLM()
		if err != nil {
			return err
		}

		s := &apiServer{
			store:          st,
			llm:            client,
			analysisCfg:    cfg.Analysis,
			llmTimeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
			maxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(s, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("store", cfg.Store.Driver),
			zap.String("llm_provider", cfg.LLM.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
