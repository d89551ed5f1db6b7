package cachepolicy

import (
	"crypto/sha1"
	"encoding/base64"
	"strconv"
)

const emptyETag = `"0-2jmj7l5rSw0yVb/vlWAYkK/YBwk"`

// ETag 计算内容的强校验值，格式为 "<长度十六进制>-<sha1 base64 前 27 位>"。
// 每次调用都会重新哈希，不做缓存。
func ETag(content []byte) string {
	if len(content) == 0 {
		return emptyETag
	}
	sum := sha1.Sum(content)
	hash := base64.StdEncoding.EncodeToString(sum[:])[:27]
	return `"` + strconv.FormatInt(int64(len(content)), 16) + "-" + hash + `"`
}
