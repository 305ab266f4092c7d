package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultAPIBase is the backend API root used when none is configured
const DefaultAPIBase = "http://localhost:3000/api"

// maxErrorBody bounds how much of a failed response is kept for the error
const maxErrorBody = 512

// Gateway is the only channel to the remote chat service. Each call is a
// single round trip; nothing is retried or cached.
type Gateway interface {
	// FetchHistory returns the server-held turns for a session. On failure it
	// returns an empty slice together with the error.
	FetchHistory(ctx context.Context, sessionID string) ([]Turn, error)
	// SendChatTurn posts one user message and returns the answer text
	SendChatTurn(ctx context.Context, sessionID, message string) (string, error)
	// ResetSession asks the backend to discard a session's history
	ResetSession(ctx context.Context, sessionID string) error
}

// HistoryResponse is the body of GET /session/{id}/history
type HistoryResponse struct {
	History []Turn `json:"history"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResponse is the body of a successful POST /chat
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HTTPGateway talks to the backend over HTTP+JSON
type HTTPGateway struct {
	baseURL    string
	client     *http.Client
	normalizer *Normalizer
}

// NewHTTPGateway creates a gateway rooted at baseURL
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
		normalizer: NewNormalizer(),
	}
}

// BaseURL returns the API root
func (g *HTTPGateway) BaseURL() string {
	return g.baseURL
}

// FetchHistory implements Gateway
func (g *HTTPGateway) FetchHistory(ctx context.Context, sessionID string) ([]Turn, error) {
	endpoint := g.baseURL + "/session/" + url.PathEscape(sessionID) + "/history"

	body, err := g.do(ctx, "history", http.MethodGet, endpoint, nil)
	if err != nil {
		return []Turn{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []Turn{}, nil
	}

	var resp HistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return []Turn{}, &GatewayError{Op: "history", URL: endpoint, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	return g.normalizer.NormalizeTurns(resp.History), nil
}

// SendChatTurn implements Gateway
func (g *HTTPGateway) SendChatTurn(ctx context.Context, sessionID, message string) (string, error) {
	endpoint := g.baseURL + "/chat"

	payload, err := json.Marshal(ChatRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return "", &GatewayError{Op: "chat", URL: endpoint, Err: err}
	}

	body, err := g.do(ctx, "chat", http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &GatewayError{Op: "chat", URL: endpoint, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if strings.TrimSpace(resp.Answer) == "" {
		return "", &GatewayError{Op: "chat", URL: endpoint, Err: ErrEmptyAnswer}
	}

	return resp.Answer, nil
}

// ResetSession implements Gateway
func (g *HTTPGateway) ResetSession(ctx context.Context, sessionID string) error {
	endpoint := g.baseURL + "/session/" + url.PathEscape(sessionID) + "/reset"
	_, err := g.do(ctx, "reset", http.MethodDelete, endpoint, nil)
	return err
}

// do performs one request and returns the body of a 2xx response
func (g *HTTPGateway) do(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &GatewayError{Op: op, URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	Logger().WithField("op", op).Debugf("%s %s", method, endpoint)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &GatewayError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, msg),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}
