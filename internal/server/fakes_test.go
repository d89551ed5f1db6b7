package server

import (
	"context"
	"errors"
	"io/fs"

	"github.com/any-hub/cache-demo/internal/resource"
)

// faultyStore 模拟权限错误等非 not-found 的 I/O 故障。
type faultyStore struct{}

func (faultyStore) Fetch(context.Context, string) (*resource.Resource, error) {
	return nil, &fs.PathError{Op: "open", Path: "image/01.jpg", Err: errors.New("permission denied")}
}
