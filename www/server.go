package www

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/config"
	"github.com/icodeforyou/solarcalc-go/estimate"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	mux    *http.ServeMux
	hub    *Hub
	tm     *TemplateManager
}

//go:embed static
var embeddedStaticDir embed.FS

func StartServer(logs logReader, est *estimate.Estimator, config config.AppConfigApi, version string) (*Server, error) {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, config.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization: %w", err)
	}

	static, err := staticFilesHandler(config.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}

	s := &Server{
		logger: logger,
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewHub(logger),
		tm:     tm,
	}

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	sessions := NewSessionStore(logger.With(slog.String("component", "session")), config.GetSessionKey())
	prices := est.Prices()

	s.mux.Handle("/static/", http.StripPrefix("/static/", static))

	s.mux.Handle("/{$}", logReqMW(NewIndexHandler(
		logger.With(slog.String("handler", "index")),
		prices,
		tm,
		sessions,
		version)))

	s.mux.Handle("/calculate", logReqMW(NewCalculateHandler(
		logger.With(slog.String("handler", "calculate")),
		est,
		tm,
		sessions)))

	s.mux.Handle("/chart", logReqMW(NewChartHandler(
		logger.With(slog.String("handler", "chart")),
		est)))

	s.mux.Handle("/states", logReqMW(NewStatesHandler(
		logger.With(slog.String("handler", "states")),
		prices)))

	s.mux.Handle("/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		logs,
		tm)))

	s.mux.Handle("/sys_info", logReqMW(NewSysInfoHandler(
		logger.With(slog.String("handler", "sys_info")),
		tm,
		SysInfo{
			Version:      version,
			Constants:    est.Constants(),
			Years:        calc.Years,
			DefaultPrice: prices.Lookup(""),
			NoOfStates:   len(prices.States()),
		})))

	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, est, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		if !s.hub.register(client) {
			client.conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	})

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	s.logger.Info("starting server...", slog.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)
	defer s.tm.Close()

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}

func staticFilesHandler(extDir *string) (http.Handler, error) {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir)), nil
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		return nil, err
	}
	return http.FileServer(http.FS(fsys)), nil
}
