package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/jsonlog"
	"github.com/liliang-cn/movieflux/internal/service"
)

var (
	buildTime string
	version   string
)

// 应用配置
type config struct {
	port int
	env  string
	db   struct {
		driver       string
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
		migrate      bool
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
}

// 应用定义
type application struct {
	config config
	logger *jsonlog.Logger
	models data.Models
	movies *service.Movies
}

func main() {
	var cfg config
	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.db.driver, "db-driver", data.DriverPostgres, "Database driver (postgres|sqlite3)")
	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("MOVIES_DB_DSN"), "Database DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m", "Database max connection idle time")
	flag.BoolVar(&cfg.db.migrate, "db-migrate", true, "Create missing tables on startup")
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	// 显示版本
	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// 连接数据库
	db, err := data.Open(data.DBConfig{
		Driver:       cfg.db.driver,
		DSN:          cfg.db.dsn,
		MaxOpenConns: cfg.db.maxOpenConns,
		MaxIdleConns: cfg.db.maxIdleConns,
		MaxIdleTime:  cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// 退出前关闭数据库连接
	defer db.Close()

	logger.PrintInfo("database connection pool established", map[string]string{
		"driver": cfg.db.driver,
	})

	if cfg.db.migrate {
		err = data.Migrate(context.Background(), db, cfg.db.driver)
		if err != nil {
			logger.PrintFatal(err, nil)
		}

		logger.PrintInfo("database schema applied", nil)
	}

	expvar.NewString("version").Set(version)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))

	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	models := data.NewModels(db)

	// 初始化应用
	app := &application{
		config: cfg,
		logger: logger,
		models: models,
		movies: service.NewMovies(models.Movies),
	}

	// 启动 server
	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
