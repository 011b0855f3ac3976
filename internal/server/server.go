package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/storage"
)

// Server exposes sequencer sessions over HTTP and websockets. Each session
// owns one player; clients drive it with control actions and watch it
// through a frame stream.
type Server struct {
	reg       *experiment.Registry
	store     *storage.Store
	collector *metrics.Collector
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	engine    *gin.Engine

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*session
}

type Options struct {
	// Store persists saved sessions. Optional.
	Store *storage.Store
	// Registry receives the sequencer metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Logger   *slog.Logger
	Seed     int64
}

func New(reg *experiment.Registry, opts Options) *Server {
	promReg := opts.Registry
	if promReg == nil {
		promReg = prometheus.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Server{
		reg:       reg,
		store:     opts.Store,
		collector: metrics.NewCollector(promReg),
		gatherer:  promReg,
		logger:    logger.With("component", "server"),
		rng:       rand.New(rand.NewSource(seed)),
		sessions:  make(map[string]*session),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/algorithms", s.handleAlgorithms)
	api.GET("/runs", s.handleRuns)
	api.POST("/sessions", s.handleCreate)
	api.GET("/sessions", s.handleList)
	api.GET("/sessions/:id", s.handleGet)
	api.DELETE("/sessions/:id", s.handleDelete)
	api.GET("/sessions/:id/stream", s.handleStream)
	api.POST("/sessions/:id/:action", s.handleAction)
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr and serves until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx ends, then shuts down and cancels
// every session.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.Close()
	return err
}

// Close cancels and forgets every session.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) session(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
