// useradd 创建一个可以通过 HTTP Basic 认证访问 API 的用户
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/jsonlog"
	"github.com/liliang-cn/movieflux/internal/validator"
)

func main() {
	var (
		driver   string
		dsn      string
		username string
		password string
		roles    string
	)

	flag.StringVar(&driver, "db-driver", data.DriverPostgres, "Database driver (postgres|sqlite3)")
	flag.StringVar(&dsn, "db-dsn", os.Getenv("MOVIES_DB_DSN"), "Database DSN")
	flag.StringVar(&username, "username", "", "Username")
	flag.StringVar(&password, "password", "", "Password (8 to 72 bytes)")
	flag.StringVar(&roles, "roles", data.RoleUser, "Comma separated roles (USER,ADMIN)")
	flag.Parse()

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	db, err := data.Open(data.DBConfig{Driver: driver, DSN: dsn, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := data.Migrate(ctx, db, driver); err != nil {
		logger.PrintFatal(err, nil)
	}

	user, err := addUser(ctx, data.NewModels(db), username, password, splitRoles(roles))
	if err != nil {
		var failed *validationFailure
		if errors.As(err, &failed) {
			for field, message := range failed.errors {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, message)
			}
			os.Exit(2)
		}
		logger.PrintFatal(err, nil)
	}

	logger.PrintInfo("user created", map[string]string{
		"username": user.Username,
		"roles":    strings.Join(user.Roles, ","),
	})
}

type validationFailure struct {
	errors map[string]string
}

func (f *validationFailure) Error() string {
	return "invalid user"
}

// addUser 校验并保存用户及其角色
func addUser(ctx context.Context, models data.Models, username, password string, roles data.Roles) (*data.User, error) {
	user := &data.User{
		Username: username,
		Roles:    roles,
	}

	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}

	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, &validationFailure{errors: v.Errors}
	}

	err = models.Users.Insert(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			return nil, &validationFailure{errors: map[string]string{
				"username": "a user with this username already exists",
			}}
		default:
			return nil, err
		}
	}

	err = models.Roles.AddForUser(ctx, user.ID, user.Roles...)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func splitRoles(s string) data.Roles {
	var roles data.Roles
	for _, role := range strings.Split(s, ",") {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
