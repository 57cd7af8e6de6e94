package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrMovieNotFound 按 id 查询、更新或删除时记录不存在
var ErrMovieNotFound = errors.New("movie not found")

// ValidationError 客户端提交的数据未通过校验，Errors 的 key 为字段名
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Errors[field])
	}

	return strings.Join(parts, "; ")
}
