// Package server exposes the assistant over HTTP: the chat endpoint, the
// receipt upload endpoint and the conversation reset endpoint.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/chatbot"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/rag"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the HTTP endpoint dependencies
type Handler struct {
	router         *chatbot.Router
	engine         *rag.Engine
	uploads        *storage.LocalFileStorage
	defaultSession string
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	router *chatbot.Router,
	engine *rag.Engine,
	uploads *storage.LocalFileStorage,
	defaultSession string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		router:         router,
		engine:         engine,
		uploads:        uploads,
		defaultSession: defaultSession,
		logger:         logger,
	}
}

// RegisterRoutes attaches the endpoints to a gin engine
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/chat", h.Chat)
	r.POST("/upload", h.Upload)
	r.POST("/reset", h.Reset)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

// Health reports service liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "hr-policy-assistant",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Chat handles one conversational turn. Only a policy-retrieval failure
// surfaces as an error payload; every other failure comes back as a
// conversational response.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.defaultSession
	}

	response, err := h.router.Answer(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		h.logger.Error("Chat turn failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}

// Upload stores a receipt file and returns its path. The client signals
// the completed upload to the chat endpoint with the
// "receipt_uploaded:<path>" marker message.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	path, err := h.uploads.SaveUpload(fileHeader.Filename, content)
	if err != nil {
		h.logger.Error("Failed to store uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_path": path})
}

// Reset clears the addressed session's state and the retrieval engine's
// dialogue memory.
func (h *Handler) Reset(c *gin.Context) {
	var req resetRequest
	_ = c.ShouldBindJSON(&req)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.defaultSession
	}

	h.router.Sessions().Reset(sessionID)
	h.engine.Reset()

	h.logger.Info("Conversation reset", zap.String("session_id", sessionID))
	c.JSON(http.StatusOK, gin.H{"status": "conversation reset"})
}
