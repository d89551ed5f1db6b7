package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/any-hub/cache-demo/internal/cachepolicy"
	"github.com/any-hub/cache-demo/internal/config"
)

// Route 将配置与解析后的缓存策略聚合在一起，请求期间只读。
type Route struct {
	// Config 是 config.toml（或内置默认表）中的路由字段副本。
	Config config.RouteConfig
	// Path 是精确匹配的请求路径。
	Path string
	// File 是 RootDir 下的相对文件名。
	File string
	// Strategy 在构建路由表时一次性解析完成。
	Strategy cachepolicy.Strategy
}

// RouteTable 提供请求路径到 Route 的精确查找。构建后不再修改，可被任意 goroutine 并发读取。
type RouteTable struct {
	routes  map[string]*Route
	ordered []*Route
}

// NewRouteTable 根据配置构建路由表。调用方应在启动阶段创建一次并复用。
func NewRouteTable(cfg *config.Config) (*RouteTable, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	table := &RouteTable{
		routes: make(map[string]*Route, len(cfg.Routes)),
	}

	for _, rc := range cfg.Routes {
		path := strings.TrimSpace(rc.Path)
		if path == "" || !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("invalid path for route %q", rc.Path)
		}
		if _, exists := table.routes[path]; exists {
			return nil, fmt.Errorf("duplicate route detected for %s", path)
		}

		strategy, err := rc.CacheStrategy()
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", path, err)
		}

		route := &Route{
			Config:   rc,
			Path:     path,
			File:     rc.File,
			Strategy: strategy,
		}
		table.routes[path] = route
		table.ordered = append(table.ordered, route)
	}

	return table, nil
}

// Lookup 按请求路径精确查找，不做大小写或尾斜杠归一化。
func (t *RouteTable) Lookup(path string) (*Route, bool) {
	if t == nil {
		return nil, false
	}
	route, ok := t.routes[path]
	return route, ok
}

// List 返回按配置顺序排列的路由副本，用于诊断输出。
func (t *RouteTable) List() []Route {
	if t == nil || len(t.ordered) == 0 {
		return nil
	}

	result := make([]Route, len(t.ordered))
	for i, route := range t.ordered {
		result[i] = *route
	}
	return result
}

// Len 返回路由数量。
func (t *RouteTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ordered)
}
