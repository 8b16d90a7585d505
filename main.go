package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xiao-e-yun/image-provider/internal/cache"
	"github.com/xiao-e-yun/image-provider/internal/config"
	"github.com/xiao-e-yun/image-provider/internal/imaging"
	"github.com/xiao-e-yun/image-provider/internal/logging"
	"github.com/xiao-e-yun/image-provider/internal/provider"
	"github.com/xiao-e-yun/image-provider/internal/server"
	"github.com/xiao-e-yun/image-provider/internal/server/routes"
	"github.com/xiao-e-yun/image-provider/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(*cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["root"] = cfg.Root
		fields["resize_filter"] = cfg.ResizeFilter
		fields["resize_algorithm"] = cfg.ResizeAlgorithm
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 重采样参数在启动阶段校验完毕，请求处理路径不再检查。
	resizer, err := imaging.NewResizer(cfg.ResizeAlgorithm, cfg.ResizeFilter)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化重采样器失败: %v\n", err)
		return 1
	}

	// CLI 启动遵循“配置 → 重采样器 → 结果缓存 → Fiber server”顺序，
	// 保证所有请求共享同一个缓存实例，方便观察 cache/log 指标。
	store := cache.NewMemory(cfg.CacheCapacity, cfg.CacheTTL.DurationValue())

	handler := provider.NewHandler(provider.Options{
		Root:         cfg.Root,
		Resizer:      resizer,
		Store:        store,
		Logger:       logger,
		MaxPixelArea: cfg.MaxPixelArea,
	})

	fields := logging.BaseFields("startup", opts.configPath)
	fields["root"] = cfg.Root
	fields["listen_port"] = cfg.ListenPort
	fields["cache_capacity"] = cfg.CacheCapacity
	fields["resize_filter"] = cfg.ResizeFilter
	fields["resize_algorithm"] = cfg.ResizeAlgorithm
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, handler, store, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("image-provider", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 IMAGE_PROVIDER_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("IMAGE_PROVIDER_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, handler server.ImageHandler, store cache.Store, logger *logrus.Logger) error {
	port := cfg.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Handler:    handler,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterStatsRoutes(app, store, routes.ResizeSettings{
		CacheCapacity: cfg.CacheCapacity,
		CacheTTL:      cfg.CacheTTL.DurationValue(),
		Algorithm:     cfg.ResizeAlgorithm,
		Filter:        cfg.ResizeFilter,
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
