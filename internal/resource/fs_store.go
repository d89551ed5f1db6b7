package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NewFileStore 以 root 为根目录构建资源存储，整站复用一份实例。
func NewFileStore(root string) (Store, error) {
	if root == "" {
		return nil, errors.New("root dir required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}

	return &fileStore{basePath: abs}, nil
}

// fileStore 只持有根目录，不缓存任何文件内容。
type fileStore struct {
	basePath string
}

func (s *fileStore) Fetch(ctx context.Context, name string) (*Resource, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return &Resource{
		Name:         name,
		FilePath:     filePath,
		Content:      content,
		LastModified: info.ModTime(),
	}, nil
}

func (s *fileStore) path(name string) (string, error) {
	rel := path.Clean("/" + name)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", ErrNotFound
	}

	filePath := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if !within(s.basePath, filePath) {
		return "", ErrNotFound
	}

	// 词法检查挡不住软链接，按解析后的真实路径再校验一次。
	base, err := filepath.EvalSymlinks(s.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("resolve root dir: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	if !within(base, resolved) {
		return "", ErrNotFound
	}
	return resolved, nil
}

func within(base, target string) bool {
	return strings.HasPrefix(target, base+string(filepath.Separator))
}
