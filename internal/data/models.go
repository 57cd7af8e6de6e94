package data

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// queryTimeout 单条查询的最长执行时间，请求的 context 被取消时会更早结束
const queryTimeout = 3 * time.Second

type Models struct {
	Movies MovieModel
	Users  UserModel
	Roles  RoleModel
}

func NewModels(db *sql.DB) Models {
	return Models{
		Movies: MovieModel{DB: db},
		Users:  UserModel{DB: db},
		Roles:  RoleModel{DB: db},
	}
}
