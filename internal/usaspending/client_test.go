package usaspending

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// stubTransport records every request the client issues and responds from a
// canned function. Tests never touch the network.
type stubTransport struct {
	calls    int
	lastReq  *http.Request
	lastBody []byte
	respond  func(req *http.Request) (*http.Response, error)
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	s.lastReq = req
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		s.lastBody = body
	}
	return s.respond(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newStubClient(st *stubTransport) *Client {
	return NewWithConfig(Config{
		NewHTTPClient: func() *http.Client {
			return &http.Client{Transport: st}
		},
	})
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if c.newHTTPClient == nil {
		t.Fatal("default client factory is nil")
	}
	if got := c.newHTTPClient().Timeout; got != DefaultTimeout {
		t.Errorf("default client timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestNewWithConfigBaseURL(t *testing.T) {
	c := NewWithConfig(Config{BaseURL: "https://example.com/api/v2/"})
	if c.BaseURL() != "https://example.com/api/v2/" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}

func TestGetReturnsRawResponse(t *testing.T) {
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"ok":true}`), nil
	}}
	c := newStubClient(st)

	resp, err := c.Get(context.Background(), "references/toptier_agencies/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.URL != DefaultBaseURL+"references/toptier_agencies/" {
		t.Errorf("URL = %q", resp.URL)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if st.lastReq.Method != http.MethodGet {
		t.Errorf("method = %q, want GET", st.lastReq.Method)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	}}
	c := newStubClient(st)

	_, err := c.Post(context.Background(), "spending/", map[string]string{"type": "award"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got := st.lastReq.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if string(st.lastBody) != `{"type":"award"}` {
		t.Errorf("body = %q", st.lastBody)
	}
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(500, `{"detail":"boom"}`), nil
	}}
	c := newStubClient(st)

	_, err := c.Get(context.Background(), "spending/")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	ge, ok := AsError(err)
	if !ok {
		t.Fatalf("error %T is not a gateway error", err)
	}
	if ge.Kind != KindStatus {
		t.Errorf("Kind = %q, want %q", ge.Kind, KindStatus)
	}
	if ge.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", ge.StatusCode)
	}
	if ge.URL != DefaultBaseURL+"spending/" {
		t.Errorf("URL = %q", ge.URL)
	}
}

func TestConnectionFailureBecomesTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return nil, cause
	}}
	c := newStubClient(st)

	_, err := c.Get(context.Background(), "spending/")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !IsKind(err, KindTransport) {
		t.Errorf("expected transport kind, got %v", err)
	}
	if IsKind(err, KindStatus) {
		t.Error("transport error must not report status kind")
	}
	if !errors.Is(err, cause) {
		t.Error("transport error should wrap the underlying cause")
	}
}

func TestMalformedJSONBecomesTransportError(t *testing.T) {
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `<html>not json</html>`), nil
	}}
	c := newStubClient(st)

	resp, err := c.Get(context.Background(), "spending/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var out map[string]any
	err = resp.JSON(&out)
	if !IsKind(err, KindTransport) {
		t.Errorf("expected transport kind for malformed body, got %v", err)
	}
	ge, _ := AsError(err)
	if ge.URL != DefaultBaseURL+"spending/" {
		t.Errorf("URL = %q", ge.URL)
	}
}

func TestFreshClientPerCall(t *testing.T) {
	st := &stubTransport{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	}}
	factoryCalls := 0
	c := NewWithConfig(Config{
		NewHTTPClient: func() *http.Client {
			factoryCalls++
			return &http.Client{Transport: st}
		},
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), "references/toptier_agencies/"); err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
	}
	if factoryCalls != 3 {
		t.Errorf("client factory called %d times, want one per request (3)", factoryCalls)
	}
}
