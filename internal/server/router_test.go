package server

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

func TestRouterForwardsToImageHandler(t *testing.T) {
	app, recorder := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/photos/cat.jpg?w=100", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 status, got %d", resp.StatusCode)
	}
	if recorder.lastPath != "/photos/cat.jpg" {
		t.Fatalf("expected handler to see image path, got %s", recorder.lastPath)
	}
	if reqID := resp.Header.Get("X-Request-ID"); reqID == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestRouterSkipsDiagnosticsPrefix(t *testing.T) {
	app, recorder := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/stats", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	// 未注册诊断路由时 fiber 返回 404，但图片处理器绝不能被命中。
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unregistered diagnostics route, got %d", resp.StatusCode)
	}
	if recorder.calls != 0 {
		t.Fatalf("diagnostics path must bypass the image handler, got %d calls", recorder.calls)
	}
}

func TestNewAppValidatesOptions(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	handler := ImageHandlerFunc(func(c fiber.Ctx) error { return nil })

	if _, err := NewApp(AppOptions{Handler: handler, ListenPort: 3000}); err == nil {
		t.Fatal("expected error when logger missing")
	}
	if _, err := NewApp(AppOptions{Logger: logger, ListenPort: 3000}); err == nil {
		t.Fatal("expected error when handler missing")
	}
	if _, err := NewApp(AppOptions{Logger: logger, Handler: handler}); err == nil {
		t.Fatal("expected error when port invalid")
	}
}

type handlerRecorder struct {
	lastPath string
	calls    int
}

func (r *handlerRecorder) Handle(c fiber.Ctx) error {
	r.calls++
	r.lastPath = string(c.Request().URI().Path())
	return c.SendStatus(fiber.StatusNoContent)
}

func newTestApp(t *testing.T) (*fiber.App, *handlerRecorder) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	recorder := &handlerRecorder{}
	app, err := NewApp(AppOptions{
		Logger:     logger,
		Handler:    recorder,
		ListenPort: 3000,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app, recorder
}
