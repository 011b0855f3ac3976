package server

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/seq"
	"github.com/san-kum/algoviz/internal/storage"
)

type AlgorithmInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	NeedsTarget bool     `json:"needs_target"`
	Container   bool     `json:"container"`
	DelayMs     int      `json:"delay_ms"`
	Presets     []string `json:"presets"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	DelayMs   int64     `json:"delay_ms"`
	Frame     seq.Frame `json:"frame"`
}

type CreateRequest struct {
	config.Config
	Preset string `json:"preset,omitempty"`
}

type ActionRequest struct {
	DelayMs int `json:"delay_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	names := s.reg.ListAlgorithms()
	out := make([]AlgorithmInfo, 0, len(names))
	for _, name := range names {
		out = append(out, AlgorithmInfo{
			Name:        name,
			Description: s.reg.Describe(name),
			NeedsTarget: s.reg.NeedsTarget(name),
			Container:   s.reg.IsContainer(name),
			DelayMs:     config.AlgorithmDelay(name),
			Presets:     nonNilStrings(config.ListPresets(name)),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, seq.Invalid("body", "%v", err))
		return
	}

	cfg := config.DefaultConfig()
	if req.Preset != "" {
		p, err := config.FromPreset(req.Algorithm, req.Preset)
		if err != nil {
			s.fail(c, seq.Invalid("preset", "%v", err))
			return
		}
		cfg = p
	}
	cfg.Merge(&req.Config)

	s.rngMu.Lock()
	ecfg, err := experiment.FromConfig(cfg, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		s.fail(c, err)
		return
	}

	id := uuid.NewString()
	p, err := s.reg.Build(ecfg.Algorithm, ecfg.Inputs,
		seq.WithID(id),
		seq.WithDelay(ecfg.Delay),
		seq.WithPollInterval(ecfg.Poll),
		seq.WithLogger(s.logger))
	if err != nil {
		s.fail(c, err)
		return
	}

	sess := newSession(id, ecfg, p)
	sess.unsubs = append(sess.unsubs, s.collector.Track(p))

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", "session", id, "algorithm", ecfg.Algorithm)
	c.JSON(http.StatusCreated, info(sess))
}

func (s *Server) handleList(c *gin.Context) {
	s.mu.RLock()
	out := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, info(sess))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b SessionInfo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, info(sess))
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	sess.close()
	s.logger.Info("session closed", "session", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAction(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	action := c.Param("action")

	if action == "save" {
		s.save(c, sess)
		return
	}

	var req ActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, seq.Invalid("body", "%v", err))
			return
		}
	}
	if err := sess.control(action, req.DelayMs); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info(sess))
}

func (s *Server) save(c *gin.Context, sess *session) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "no store configured"})
		return
	}

	sess.ctlMu.Lock()
	defer sess.ctlMu.Unlock()

	if st := sess.player.Frame().Status; st == seq.Running || st == seq.Paused {
		s.fail(c, &seq.IllegalStateError{Op: "save", Status: st})
		return
	}
	res := sess.result(uuid.NewString())
	id, err := s.store.Save(c.Request.Context(), res, sess.player.Delay())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"run_id": id})
}

func (s *Server) handleRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, []storage.RunMetadata{})
		return
	}
	runs, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
	}
	return sess, ok
}

// fail maps error classes to status codes.
func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, seq.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, seq.ErrIllegalState):
		code = http.StatusConflict
	case errors.Is(err, seq.ErrCapacity), errors.Is(err, seq.ErrEmpty):
		code = http.StatusUnprocessableEntity
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, errorResponse{Error: seq.Message(err)})
}

func info(sess *session) SessionInfo {
	return SessionInfo{
		ID:        sess.id,
		Algorithm: sess.algorithm,
		DelayMs:   sess.player.Delay().Milliseconds(),
		Frame:     sess.player.Frame(),
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
