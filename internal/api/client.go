// Package api is the HTTP client for the document question-answering backend.
// It speaks the two endpoints the chat panel needs: POST /query and
// POST /addDocuments.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	queryPath  = "/query"
	uploadPath = "/addDocuments"

	// FileField is the multipart part name the backend reads the upload from.
	FileField = "file"

	// RequestIDHeader carries the correlation ID of each call.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// QueryRequest is the /query request body.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the /query response body.
type QueryResponse struct {
	Answer *string `json:"answer"`
}

// UploadResponse is the optional /addDocuments response body. Only the status
// code decides success; the fields are informational.
type UploadResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// documentsRequest is the JSON form of /addDocuments for server-side paths.
type documentsRequest struct {
	Documents []string `json:"documents"`
}

// Client talks to one backend base address.
type Client struct {
	baseURL       string
	client        *http.Client
	queryTimeout  time.Duration
	uploadTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithQueryTimeout bounds each /query call. Zero means no per-call bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Client) { c.queryTimeout = d }
}

// WithUploadTimeout bounds each /addDocuments call. Zero means no per-call bound.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) { c.uploadTimeout = d }
}

// NewClient creates a client for baseURL. A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        &http.Client{},
		queryTimeout:  60 * time.Second,
		uploadTimeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID returns a context whose backend calls carry id in the
// X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored by WithRequestID, or a fresh one.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Ask sends question to /query and returns the answer text.
// Every failure matches ErrQuestionRequestFailed.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(QueryRequest{Question: question})
	if err != nil {
		return "", questionError(0, "", fmt.Errorf("marshaling request: %w", err))
	}

	ctx, cancel := withTimeout(ctx, c.queryTimeout)
	defer cancel()

	resp, err := c.post(ctx, queryPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", questionError(0, "", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", questionError(resp.StatusCode, readErrorBody(resp.Body), nil)
	}

	var qr QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return "", questionError(0, "", fmt.Errorf("decoding response: %w", err))
	}
	if qr.Answer == nil {
		return "", questionError(0, "", errors.New("response has no answer field"))
	}
	return *qr.Answer, nil
}

// AddDocument uploads the file at path to /addDocuments.
// Every failure matches ErrUploadRequestFailed.
func (c *Client) AddDocument(ctx context.Context, path string) (UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResponse{}, uploadError(0, "", err)
	}
	defer f.Close()

	return c.AddDocumentReader(ctx, filepath.Base(path), f)
}

// AddDocumentReader uploads the contents of r as a file named name.
func (c *Client) AddDocumentReader(ctx context.Context, name string, r io.Reader) (UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(FileField, name)
	if err != nil {
		return UploadResponse{}, uploadError(0, "", fmt.Errorf("creating form file: %w", err))
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResponse{}, uploadError(0, "", fmt.Errorf("reading %s: %w", name, err))
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, uploadError(0, "", fmt.Errorf("closing form: %w", err))
	}

	return c.upload(ctx, mw.FormDataContentType(), &buf)
}

// AddDocumentPaths asks the backend to ingest files that already exist on the
// backend host.
func (c *Client) AddDocumentPaths(ctx context.Context, paths []string) (UploadResponse, error) {
	body, err := json.Marshal(documentsRequest{Documents: paths})
	if err != nil {
		return UploadResponse{}, uploadError(0, "", fmt.Errorf("marshaling request: %w", err))
	}
	return c.upload(ctx, "application/json", bytes.NewReader(body))
}

func (c *Client) upload(ctx context.Context, contentType string, body io.Reader) (UploadResponse, error) {
	ctx, cancel := withTimeout(ctx, c.uploadTimeout)
	defer cancel()

	resp, err := c.post(ctx, uploadPath, contentType, body)
	if err != nil {
		return UploadResponse{}, uploadError(0, "", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return UploadResponse{}, uploadError(resp.StatusCode, readErrorBody(resp.Body), nil)
	}

	var ur UploadResponse
	// Body is informational; an empty or non-JSON body is still a success.
	_ = json.NewDecoder(resp.Body).Decode(&ur)
	return ur, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, RequestID(ctx))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	return resp, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func readErrorBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}
