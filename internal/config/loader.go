package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultPath 是未指定配置文件时使用的路径；只有在未显式指定时，该文件缺失才会回退到内置默认值。
const DefaultPath = "config.toml"

// EnvPrefix 是全局字段的环境变量前缀，例如 CACHE_DEMO_LISTENPORT。
const EnvPrefix = "CACHE_DEMO"

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// path 为空表示调用方未指定，此时读取 DefaultPath 且允许其缺失；显式给出的文件缺失一律报错。
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !isNotExist(err) {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	if len(cfg.Routes) == 0 {
		cfg.Routes = DefaultRoutes()
	}
	for i := range cfg.Routes {
		applyRouteDefaults(&cfg.Routes[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(cfg.Global.RootDir)
	if err != nil {
		return nil, fmt.Errorf("无法解析资源目录: %w", err)
	}
	cfg.Global.RootDir = absRoot

	return &cfg, nil
}

// Default 返回完全由内置默认值构成的配置，不读取文件与环境变量。
func Default() *Config {
	cfg := &Config{Routes: DefaultRoutes()}
	applyGlobalDefaults(&cfg.Global)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 3000)
	v.SetDefault("RootDir", "./public")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 3000
	}
	if strings.TrimSpace(g.RootDir) == "" {
		g.RootDir = "./public"
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.LogMaxSize == 0 {
		g.LogMaxSize = 100
	}
	if g.LogMaxBackups == 0 {
		g.LogMaxBackups = 10
	}
}

func applyRouteDefaults(r *RouteConfig) {
	r.Path = strings.TrimSpace(r.Path)
	r.File = strings.TrimPrefix(strings.TrimSpace(r.File), "/")
	r.Strategy = strings.ToLower(strings.TrimSpace(r.Strategy))
	if r.MaxAge.DurationValue() < 0 {
		r.MaxAge = Duration(0)
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
