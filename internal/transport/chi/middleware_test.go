package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
)

func TestWideEvent_AnnotatedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var sawLogger bool
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logpkg.FromContextOr(r.Context(), nil) != nil
		annotate(r.Context(), zap.String("mode", "agentic"))
		annotate(r.Context(), zap.Int("results", 4))
		w.WriteHeader(http.StatusAccepted)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if !sawLogger {
		t.Error("expected a request logger in the context")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d http_request entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["mode"] != "agentic" || fields["results"] != int64(4) || fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("fields = %v", fields)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entries[0].Level)
	}
	if _, ok := fields["request_id"]; !ok {
		t.Error("expected request_id field")
	}
}

func TestWideEvent_ServerErrorsLogAtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := wideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("entries = %v, want one warn", entries)
	}
}

func TestAnnotate_OutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	annotate(req.Context(), zap.String("k", "v"))
}

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := jsonRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != ErrorCodeInternal {
		t.Errorf("code = %q", body.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}

func TestJSONRecoverer_RepanicsOnAbort(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler {
			t.Errorf("recovered %v, want ErrAbortHandler", rvr)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
}
