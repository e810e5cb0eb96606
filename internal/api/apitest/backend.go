// Package apitest runs an in-process fake of the question-answering backend.
// It mirrors the real service's routes so client and panel tests can exercise
// the whole HTTP path.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Upload is one file received on /addDocuments.
type Upload struct {
	Name      string
	Content   []byte
	RequestID string
}

// Backend is a fake backend. Zero hooks give a backend that answers every
// question with "answer: <question>" and accepts every upload.
type Backend struct {
	Server *httptest.Server

	// AnswerFunc returns the answer and status for a question. It may block to
	// hold a response back.
	AnswerFunc func(question string) (answer string, status int)
	// UploadStatus overrides the /addDocuments status when non-zero.
	UploadStatus int

	mu         sync.Mutex
	questions  []string
	requestIDs []string
	uploads    []Upload
	docPaths   [][]string
}

// NewBackend starts a backend and stops it when t finishes.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/query", b.handleQuery)
	r.Post("/addDocuments", b.handleAddDocuments)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base address to hand to api.NewClient.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Questions returns the questions received so far, in arrival order.
func (b *Backend) Questions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.questions...)
}

// RequestIDs returns the X-Request-ID headers of the /query calls.
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs...)
}

// Uploads returns the files received so far.
func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}

// DocumentPaths returns the path lists received as JSON uploads.
func (b *Backend) DocumentPaths() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.docPaths...)
}

func (b *Backend) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	b.mu.Lock()
	b.questions = append(b.questions, req.Question)
	b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
	answerFn := b.AnswerFunc
	b.mu.Unlock()

	answer, status := "answer: "+req.Question, http.StatusOK
	if answerFn != nil {
		answer, status = answerFn(req.Question)
	}
	if status < 200 || status > 299 {
		writeJSON(w, status, map[string]string{"error": answer})
		return
	}
	writeJSON(w, status, map[string]string{"answer": answer})
}

func (b *Backend) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.UploadStatus
	b.mu.Unlock()
	if status != 0 && (status < 200 || status > 299) {
		writeJSON(w, status, map[string]string{"error": "rejected"})
		return
	}
	if status == 0 {
		status = http.StatusOK
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Documents []string `json:"documents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Documents) == 0 {
			writeJSON(w, http.StatusOK, map[string]string{"error": "Invalid request"})
			return
		}
		b.mu.Lock()
		b.docPaths = append(b.docPaths, req.Documents)
		b.mu.Unlock()
		writeJSON(w, status, map[string]string{"message": "Documents added successfully"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Invalid request"})
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeJSON(w, http.StatusOK, map[string]string{"error": "No selected file"})
		return
	}
	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	b.uploads = append(b.uploads, Upload{
		Name:      header.Filename,
		Content:   content,
		RequestID: r.Header.Get("X-Request-ID"),
	})
	b.mu.Unlock()

	writeJSON(w, status, map[string]string{"message": "Document added successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
