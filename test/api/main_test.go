package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/email-api/internal/config"
	"github.com/jwalitptl/email-api/internal/email"
	"github.com/jwalitptl/email-api/internal/email/provider"
	"github.com/jwalitptl/email-api/internal/handler"
	emailHandler "github.com/jwalitptl/email-api/internal/handler/email"
	promHandler "github.com/jwalitptl/email-api/internal/handler/prometheus"
	"github.com/jwalitptl/email-api/internal/middleware"
	"github.com/jwalitptl/email-api/internal/router"
	"github.com/jwalitptl/email-api/pkg/logger"
	"github.com/jwalitptl/email-api/pkg/metrics"
)

var (
	baseURL string
	mailbox = &outbox{configured: true}
)

// outbox is the provider behind the test server. It keeps every accepted
// message and can be switched into failure modes.
type outbox struct {
	mu         sync.Mutex
	configured bool
	err        error
	messages   []*email.Message
	seq        int
}

func (o *outbox) Name() string { return "SES" }

func (o *outbox) Configured() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.configured
}

func (o *outbox) Send(_ context.Context, msg *email.Message) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return "", o.err
	}
	o.seq++
	o.messages = append(o.messages, msg)
	return fmt.Sprintf("0100-test-%04d", o.seq), nil
}

func (o *outbox) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.configured = true
	o.err = nil
	o.messages = nil
}

func (o *outbox) last() *email.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.messages) == 0 {
		return nil
	}
	return o.messages[len(o.messages)-1]
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.messages)
}

// TestResponse wraps the API response for testing
type TestResponse struct {
	StatusCode int
	Data       map[string]interface{}
	RawData    string
}

func (r TestResponse) IsSuccess() bool {
	ok, _ := r.Data["success"].(bool)
	return r.StatusCode == http.StatusOK && ok
}

func (r TestResponse) GetString(key string) string {
	if r.Data == nil {
		return ""
	}
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

func newServer() (*httptest.Server, error) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 5001, MaxBodyBytes: 64 << 10},
		Email: config.EmailConfig{
			Provider:       config.ProviderSES,
			VerifiedDomain: "adiology.online",
			FromAddress:    "noreply@adiology.online",
			FromName:       "Adiology",
			SiteURL:        "https://adiology.online",
			SupportAddress: "support@adiology.online",
			Tagline:        "Google Ads Made Easy",
		},
	}

	log := logger.Nop()
	registry := prometheus.NewRegistry()
	m := metrics.New("email_api", registry)

	svc, err := provider.NewService(cfg, mailbox, 2026, email.Options{Logger: log, Metrics: m})
	if err != nil {
		return nil, err
	}

	r := router.NewRouter(handler.NewHandler(svc), emailHandler.NewHandler(svc, log), router.RouterConfig{
		Logger:       log,
		CORSConfig:   middleware.DefaultCORSConfig(),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Metrics:      promHandler.New(registry, m),
		MetricsPath:  "/metrics",
	}).Setup()

	return httptest.NewServer(r.Engine()), nil
}

func TestMain(m *testing.M) {
	srv, err := newServer()
	if err != nil {
		fmt.Printf("Error: failed to start test server: %v\n", err)
		os.Exit(1)
	}
	baseURL = srv.URL

	code := m.Run()

	srv.Close()
	os.Exit(code)
}

func makeRequest(method, path string, body interface{}) TestResponse {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return TestResponse{RawData: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return TestResponse{RawData: err.Error()}
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return TestResponse{StatusCode: response.StatusCode, RawData: err.Error()}
	}

	testResp := TestResponse{StatusCode: response.StatusCode, RawData: string(respBody)}
	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err == nil {
		testResp.Data = data
	}
	return testResp
}
