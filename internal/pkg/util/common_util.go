package util

import "time"

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// PtrTime 用于将 time.Time 转换为 *time.Time
func PtrTime(t time.Time) *time.Time {
	return &t
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}
