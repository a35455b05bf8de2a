package dto

import "time"

// TimeLayout 响应中统一的时间格式（UTC RFC3339）
const TimeLayout = time.RFC3339

// FormatTime 格式化时间；零值返回空串
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// FormatTimePtr 格式化可选时间
func FormatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}
