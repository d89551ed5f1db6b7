package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/cache-demo/internal/config"
	"github.com/any-hub/cache-demo/internal/logging"
	"github.com/any-hub/cache-demo/internal/metrics"
	"github.com/any-hub/cache-demo/internal/resource"
	"github.com/any-hub/cache-demo/internal/server"
	"github.com/any-hub/cache-demo/internal/server/routes"
	"github.com/any-hub/cache-demo/internal/version"
)

// cliOptions 对应三个命令行开关；configPath 为空表示用户没有指定配置文件。
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

// run 返回进程退出码：0 正常，1 配置或启动失败。
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

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	table, err := server.NewRouteTable(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "构建路由表失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", configLabel(opts.configPath))
		fields["routes"] = config.StrategyNames(cfg.Routes)
		fields["root_dir"] = cfg.Global.RootDir
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 文件每次请求都重新读取，这里只确定根目录。
	store, err := resource.NewFileStore(cfg.Global.RootDir)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化资源目录失败: %v\n", err)
		return 1
	}

	m := metrics.New()
	dispatcher := server.NewDispatcher(store, logger, m)

	fields := logging.BaseFields("startup", configLabel(opts.configPath))
	fields["routes"] = table.Len()
	fields["listen_port"] = cfg.Global.ListenPort
	fields["root_dir"] = cfg.Global.RootDir
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, table, dispatcher, m, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 中 --config 优先于 CACHE_DEMO_CONFIG；两者都为空时保留空路径，交给 config.Load 使用默认文件。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("cache-demo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 CACHE_DEMO_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("CACHE_DEMO_CONFIG")
	if configFlag != "" {
		path = configFlag
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// configLabel 用于日志展示实际读取的配置文件。
func configLabel(path string) string {
	if path == "" {
		return config.DefaultPath + " (optional)"
	}
	return path
}

// startHTTPServer 在演示路由表之外挂上 /-/ 诊断接口，然后阻塞监听。
func startHTTPServer(cfg *config.Config, table *server.RouteTable, handler server.RouteHandler, m *metrics.Metrics, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Table:      table,
		Handler:    handler,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterDiagnosticsRoutes(app, table, m)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
		"url":    fmt.Sprintf("http://localhost:%d", port),
	}).Info("缓存演示服务已启动，浏览器打开 url 查看")

	return app.Listen(fmt.Sprintf(":%d", port))
}
