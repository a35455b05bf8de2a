package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突：并发写入已抢先落库同一条记录
var ErrDuplicateKey = errors.New("记录已存在")

// IsDuplicateKey 判断存储层错误是否为唯一约束冲突
// 优先识别 GORM TranslateError 翻译后的 ErrDuplicatedKey；
// 未开启翻译的驱动按错误文本兜底（PostgreSQL 23505 / SQLite UNIQUE）
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicateKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
