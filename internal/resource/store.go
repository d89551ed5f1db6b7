package resource

import (
	"context"
	"errors"
	"time"
)

// Store 按逻辑名称读取资源内容与修改时间，名称使用 URL 路径风格（如 image/01.jpg）。
type Store interface {
	// Fetch 同步读取整个文件。文件不存在、为目录或名称越界时返回 ErrNotFound，
	// 其它 I/O 故障以包装后的原始错误返回，不做重试。
	Fetch(ctx context.Context, name string) (*Resource, error)
}

// Resource 是单次请求内的不可变快照。
type Resource struct {
	Name         string
	// FilePath 是解析软链接后的磁盘绝对路径，写入请求日志。
	FilePath     string
	Content      []byte
	LastModified time.Time
}

// ErrNotFound 表示资源不存在。
var ErrNotFound = errors.New("resource not found")
