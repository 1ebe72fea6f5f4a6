package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/staffhub-dev/roster-manager/backend/internal/config"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"github.com/staffhub-dev/roster-manager/backend/internal/repository"
	"github.com/staffhub-dev/roster-manager/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var dateStr string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机预设, 3: 插入随机空闲记录, 4: 插入随机值班表, 5: 插入整套演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&dateStr, "date", "", "值班表日期 (YYYY-MM-DD)，默认今天")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 本地开发时从 .env 读取环境变量，文件不存在则忽略
	_ = godotenv.Load()

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	date := domain.DateOnly(time.Now())
	if dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			logger.Error("日期格式非法", slog.String("date", dateStr))
			return
		}
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		seed.SeedEmployees(repo, cfg, n)
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的预设数量")
			return
		}
		seed.SeedPresets(repo, n)
	case 3:
		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		seed.SeedAvailabilities(repo, employees)
	case 4:
		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		seed.SeedTimesheet(repo, employees, date)
	case 5:
		seed.SeedDemoData(repo, cfg, n)
	default:
		slog.Error("指定的操作非法")
	}
}
