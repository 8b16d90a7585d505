package integration

import (
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/xiao-e-yun/image-provider/internal/cache"
	"github.com/xiao-e-yun/image-provider/internal/imaging"
	"github.com/xiao-e-yun/image-provider/internal/provider"
	"github.com/xiao-e-yun/image-provider/internal/server"
	"github.com/xiao-e-yun/image-provider/internal/server/routes"
)

const (
	fixtureWidth  = 120
	fixtureHeight = 90
)

// harness 汇总一次集成测试所需的全部组件：图片根目录、缓存与 Fiber 应用。
type harness struct {
	app   *fiber.App
	root  string
	store *cache.Memory
}

// newHarness 在临时根目录生成 PNG/JPEG 测试图，并按生产布线组装应用：
// 重采样器 → 结果缓存 → 图片处理器 → Fiber 路由 → 诊断接口。
func newHarness(t *testing.T) *harness {
	t.Helper()

	root := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, fixtureWidth, fixtureHeight))
	for y := 0; y < fixtureHeight; y++ {
		for x := 0; x < fixtureWidth; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	writeFixture(t, root, "photo.png", src, imaging.FormatPNG)
	writeFixture(t, root, "photo.jpg", src, imaging.FormatJPEG)

	resizer, err := imaging.NewResizer("interpolation", "lanczos3")
	if err != nil {
		t.Fatalf("resizer error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := cache.NewMemory(32, time.Hour)
	handler := provider.NewHandler(provider.Options{
		Root:    root,
		Resizer: resizer,
		Store:   store,
		Logger:  logger,
	})

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Handler:    handler,
		ListenPort: 5000,
	})
	if err != nil {
		t.Fatalf("app error: %v", err)
	}
	routes.RegisterStatsRoutes(app, store, routes.ResizeSettings{
		CacheCapacity: 32,
		CacheTTL:      time.Hour,
		Algorithm:     "interpolation",
		Filter:        "lanczos3",
	})

	return &harness{app: app, root: root, store: store}
}

func writeFixture(t *testing.T, root, name string, src image.Image, format imaging.Format) {
	t.Helper()

	encoded, err := imaging.Encode(src, format)
	if err != nil {
		t.Fatalf("encode fixture error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, name), encoded, 0o644); err != nil {
		t.Fatalf("write fixture error: %v", err)
	}
}

// get 执行一次请求并完整读取响应体。
func (h *harness) get(t *testing.T, target string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	return h.request(t, "GET", target, headers)
}

func (h *harness) request(t *testing.T, method, target string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := h.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	return resp, body
}

func (h *harness) fixtureBytes(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(h.root, name))
	if err != nil {
		t.Fatalf("read fixture error: %v", err)
	}
	return data
}

func decodeDims(t *testing.T, body []byte) (int, int) {
	t.Helper()

	img, err := imaging.Decode(body)
	if err != nil {
		t.Fatalf("decode response error: %v", err)
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}
