package airbnb

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// httpSession is a network client scoped to a single tier attempt. It owns
// its transport and tracks every connection dialed through it, so close
// releases all of them.
type httpSession struct {
	client    *http.Client
	transport *http.Transport
	limiter   *rate.Limiter
	userAgent string

	mu    sync.Mutex
	conns map[*trackedConn]struct{}
}

func newHTTPSession(timeout time.Duration, requestsPerSecond float64, userAgent string) *httpSession {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	s := &httpSession{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		transport: transport,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		conns:     make(map[*trackedConn]struct{}),
	}
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		tc := &trackedConn{Conn: conn, session: s}
		s.mu.Lock()
		s.conns[tc] = struct{}{}
		s.mu.Unlock()
		return tc, nil
	}
	return s
}

// get fetches url and returns the body. Statuses of 400 and above are errors.
func (s *httpSession) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: url, Message: "rate limiter", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "failed to create request", Cause: err}
	}
	s.setHeaders(req, accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return body, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return body, nil
}

func (s *httpSession) setHeaders(req *http.Request, accept string) {
	if accept == "" {
		accept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}

// close releases pooled connections, then any connection still open.
func (s *httpSession) close() {
	s.transport.CloseIdleConnections()

	s.mu.Lock()
	open := make([]*trackedConn, 0, len(s.conns))
	for c := range s.conns {
		open = append(open, c)
	}
	s.mu.Unlock()

	for _, c := range open {
		_ = c.Close()
	}
}

// openConns reports how many connections the session has not yet closed.
func (s *httpSession) openConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

type trackedConn struct {
	net.Conn
	session *httpSession
	once    sync.Once
}

func (c *trackedConn) Close() error {
	err := net.ErrClosed
	c.once.Do(func() {
		c.session.mu.Lock()
		delete(c.session.conns, c)
		c.session.mu.Unlock()
		err = c.Conn.Close()
	})
	return err
}
