// Package server exposes the game catalog and research pipeline over HTTP.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/application/handlers"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// Server bundles the application handlers behind a gin router.
type Server struct {
	games    *handlers.GamesHandler
	research *handlers.ResearchHandler
	answer   *handlers.AnswerHandler
	log      *zap.Logger
}

// NewServer creates a new HTTP server facade.
func NewServer(games *handlers.GamesHandler, research *handlers.ResearchHandler, answer *handlers.AnswerHandler, log *zap.Logger) *Server {
	return &Server{
		games:    games,
		research: research,
		answer:   answer,
		log:      log,
	}
}

// SetupRouter builds the route table.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/games", s.listGames)
	r.GET("/games/:id", s.getGame)
	r.GET("/games/:id/sources", s.listSources)
	r.GET("/games/:id/files", s.listFiles)
	r.GET("/games/:id/files/:name", s.serveFile)
	r.POST("/research", s.postResearch)
	r.POST("/ask", s.postAsk)

	return r
}

func (s *Server) listGames(c *gin.Context) {
	games, err := s.games.HandleList(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (s *Server) getGame(c *gin.Context) {
	id, ok := s.gameID(c)
	if !ok {
		return
	}
	game, err := s.games.HandleGet(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (s *Server) listSources(c *gin.Context) {
	id, ok := s.gameID(c)
	if !ok {
		return
	}
	sources, err := s.games.HandleSources(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

func (s *Server) listFiles(c *gin.Context) {
	id, ok := s.gameID(c)
	if !ok {
		return
	}
	files, err := s.games.HandleFiles(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) serveFile(c *gin.Context) {
	id, ok := s.gameID(c)
	if !ok {
		return
	}
	path, err := s.games.HandleFilePath(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.File(path)
}

type researchRequest struct {
	Name  string `json:"name" binding:"required"`
	Force bool   `json:"force"`
}

func (s *Server) postResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := s.research.HandleResearch(c.Request.Context(), req.Name, req.Force)
	if err != nil {
		s.log.Error("research request failed", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "research failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) postAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := s.answer.HandleAsk(c.Request.Context(), req.Question)
	if err != nil {
		s.log.Error("ask request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "answer failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// gameID parses the :id path parameter, answering 400 itself on failure.
func (s *Server) gameID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return 0, false
	}
	return id, true
}

func (s *Server) renderError(c *gin.Context, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.log.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
