package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/chatbot"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/claimform"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/rag"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/storage"
	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDirectory struct{}

func (stubDirectory) Lookup(ctx context.Context, employeeID string) (*models.Employee, bool) {
	if strings.EqualFold(strings.TrimSpace(employeeID), "MPC101") {
		return &models.Employee{EmployeeID: "MPC101", FullName: "Ananya Sharma", AnnualLeave: 12, SickLeave: 8}, true
	}
	return nil, false
}

type stubNotifier struct{}

func (stubNotifier) Send(to, subject, body string, attachments ...string) bool { return true }

type stubFAQ struct{}

func (stubFAQ) Match(ctx context.Context, query string) (string, bool) { return "", false }

type stubForms struct{}

func (stubForms) Generate(emp *models.Employee, claim *claimform.Claim) (string, error) {
	return "generated_forms/form.xlsx", nil
}

type stubRequestLog struct{}

func (stubRequestLog) Create(ctx context.Context, req *models.HRRequest) error { return nil }
func (stubRequestLog) MarkDispatched(ctx context.Context, id int64) error      { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubCompleter struct {
	answer string
	err    error
}

func (c *stubCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return c.answer, c.err
}

func newTestServer(t *testing.T, completer *stubCompleter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	index := rag.NewIndex(stubEmbedder{}, logger)
	require.NoError(t, index.Build(context.Background(), []rag.Chunk{{Source: "policy.md", Text: "policy text"}}))
	engine := rag.NewEngine(index, completer, 2, logger)

	router := chatbot.NewRouter(chatbot.NewStore(), stubDirectory{}, stubNotifier{}, stubFAQ{},
		engine, stubForms{}, stubRequestLog{}, "hr@example.com", "finance@example.com", logger)

	uploads, err := storage.NewLocalFileStorage(t.TempDir(), logger)
	require.NoError(t, err)

	handler := NewHandler(router, engine, uploads, "default", logger)
	r := gin.New()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	r := newTestServer(t, &stubCompleter{answer: "ok"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandler_Chat(t *testing.T) {
	t.Run("answers a policy question", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "The notice period is 60 days."})

		w := postJSON(t, r, "/chat", gin.H{"message": "What is the notice period?"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "The notice period is 60 days.", resp["response"])
	})

	t.Run("missing message is a bad request", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		for _, payload := range []interface{}{gin.H{}, gin.H{"message": ""}} {
			w := postJSON(t, r, "/chat", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "No message provided")
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("retrieval failure is an internal error", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{err: errors.New("upstream unavailable")})

		w := postJSON(t, r, "/chat", gin.H{"message": "What is the notice period?"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})

	t.Run("sessions are kept apart by session_id", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		w := postJSON(t, r, "/chat", gin.H{"message": "apply for leave", "session_id": "alice"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "employee ID")

		// A different session is not mid-flow
		w = postJSON(t, r, "/chat", gin.H{"message": "MPC101", "session_id": "bob"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello Ananya Sharma")
	})
}

func TestHandler_Upload(t *testing.T) {
	t.Run("stores the file and returns its path", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "receipt.pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte("pdf content"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["file_path"], "receipt.pdf")
	})

	t.Run("missing file is a bad request", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		w := postJSON(t, r, "/upload", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No file provided")
	})
}

func TestHandler_Reset(t *testing.T) {
	t.Run("clears the session and the dialogue memory", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "from the policy corpus"})

		// Identify, then reset
		w := postJSON(t, r, "/chat", gin.H{"message": "MPC101"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello Ananya Sharma")

		w = postJSON(t, r, "/reset", gin.H{})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "conversation reset")

		// Identity is gone: the personal-data shortcut no longer answers
		w = postJSON(t, r, "/chat", gin.H{"message": "What is my name?"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "from the policy corpus")
	})

	t.Run("resets without a body", func(t *testing.T) {
		r := newTestServer(t, &stubCompleter{answer: "ok"})

		req := httptest.NewRequest(http.MethodPost, "/reset", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "conversation reset")
	})
}
