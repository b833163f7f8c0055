package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/log"
)

// ScanResult is the terminal outcome of a scan.
type ScanResult struct {
	// Result is the server's summary, passed through untouched.
	Result json.RawMessage `json:"result"`
	// Logs is only filled by the HTTP fallback; the websocket streams lines instead.
	Logs []string `json:"logs"`
}

// scanMessage is one frame of /ws/scan/{kind}.
type scanMessage struct {
	Type    string          `json:"type"`
	Line    string          `json:"line,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Scan triggers a scan of kind, streaming log lines to onLog. When the
// websocket cannot be opened it falls back to one POST /api/scan/{kind}.
func (c *Client) Scan(ctx context.Context, kind string, onLog func(string)) (ScanResult, error) {
	if !ValidKind(kind) {
		return ScanResult{}, fmt.Errorf("unknown library kind %q", kind)
	}
	if onLog == nil {
		onLog = func(string) {}
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.wsEndpoint("/ws/scan/"+kind), c.headers())
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return ScanResult{}, ctx.Err()
		}
		log.Infof("catalog: websocket scan unavailable (%v), falling back to POST", err)
		return c.scanHTTP(ctx, kind, onLog)
	}
	defer conn.Close()

	return c.scanWS(ctx, conn, onLog)
}

func (c *Client) scanWS(ctx context.Context, conn *websocket.Conn, onLog func(string)) (ScanResult, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		var msg scanMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ScanResult{}, ctx.Err()
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				continue
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ScanResult{}, errors.New("scan connection closed before completion")
			}
			return ScanResult{}, fmt.Errorf("read scan stream: %w", err)
		}

		switch msg.Type {
		case "log":
			if msg.Line != "" {
				onLog(msg.Line)
			}
		case "done":
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ScanResult{Result: msg.Result}, nil
		case "error":
			message := msg.Message
			if message == "" {
				message = "unknown error"
			}
			return ScanResult{}, classify(0, message)
		}
	}
}

func (c *Client) scanHTTP(ctx context.Context, kind string, onLog func(string)) (ScanResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/scan/"+kind), nil)
	if err != nil {
		return ScanResult{}, err
	}
	req.Header = c.headers()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ScanResult{}, classify(resp.StatusCode, string(body))
	}

	var result ScanResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ScanResult{}, fmt.Errorf("decode scan result: %w", err)
	}

	for _, line := range result.Logs {
		onLog(line)
	}

	return result, nil
}

func (c *Client) wsEndpoint(path string) string {
	u := *c.base.JoinPath(path)
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	return u.String()
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", constant.UserAgent)
	return h
}

// Describe renders a scan error as a short notice.
func Describe(err error) string {
	var debounced *DebouncedError

	switch {
	case errors.Is(err, ErrScanRunning):
		return "A scan is already running, try again later"
	case errors.As(err, &debounced) && debounced.RetryAfter > 0:
		return fmt.Sprintf("Too many requests, retry in about %d seconds", int(debounced.RetryAfter.Seconds()))
	case errors.Is(err, ErrScanDebounced):
		return "Too many requests, retry later"
	default:
		return strings.TrimSpace(err.Error())
	}
}
