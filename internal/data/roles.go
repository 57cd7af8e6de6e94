package data

import (
	"context"
	"database/sql"

	"github.com/liliang-cn/movieflux/internal/validator"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Roles slice用来存放某个用户的角色，如 "USER" 和 "ADMIN"
type Roles []string

// Include 检查是否在 slice 中
func (r Roles) Include(role string) bool {
	for i := range r {
		if role == r[i] {
			return true
		}
	}

	return false
}

func ValidateRoles(v *validator.Validator, roles Roles) {
	v.Check(len(roles) > 0, "roles", "must contain at least one role")
	v.Check(validator.Unique(roles), "roles", "must not contain duplicate values")

	for _, role := range roles {
		v.Check(validator.In(role, RoleUser, RoleAdmin), "roles", "must only contain USER or ADMIN")
	}
}

// RoleModel 角色模型类型
type RoleModel struct {
	DB *sql.DB
}

// GetAllForUser 方法返回指定用户的所有角色
func (m RoleModel) GetAllForUser(ctx context.Context, userID int64) (Roles, error) {
	query := `
		SELECT role
		FROM users_roles
		WHERE user_id = $1
		ORDER BY role`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles Roles
	for rows.Next() {
		var role string

		err := rows.Scan(&role)
		if err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

// AddForUser 给指定用户添加角色
func (m RoleModel) AddForUser(ctx context.Context, userID int64, roles ...string) error {
	query := `
		INSERT INTO users_roles (user_id, role)
		VALUES ($1, $2)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx, query, userID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
