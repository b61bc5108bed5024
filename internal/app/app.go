package app

import (
	"os"

	"github.com/Wael-BenAbid/vfRH/internal/identity"
	"github.com/Wael-BenAbid/vfRH/internal/internship"
	"github.com/Wael-BenAbid/vfRH/internal/jobapplication"
	"github.com/Wael-BenAbid/vfRH/internal/leave"
	"github.com/Wael-BenAbid/vfRH/internal/middleware"
	"github.com/Wael-BenAbid/vfRH/internal/mission"
	"github.com/Wael-BenAbid/vfRH/internal/shared/connection"
	"github.com/Wael-BenAbid/vfRH/internal/workhours"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
    id UUID PRIMARY KEY,
    request_id VARCHAR(64),
    aggregate_type VARCHAR(50) NOT NULL,
    aggregate_id VARCHAR(64) NOT NULL,
    event_type VARCHAR(50) NOT NULL,
    topic VARCHAR(100) NOT NULL,
    payload JSONB NOT NULL,
    status VARCHAR(10) NOT NULL DEFAULT 'pending',
    retry_count INT NOT NULL DEFAULT 0,
    next_retry_at TIMESTAMPTZ,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    processed_at TIMESTAMPTZ
)`

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	router.Use(middleware.RequestID())

	return registerModules(router, db, gormDB, redisClient)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&identity.Identity{},
		&leave.Leave{},
		&mission.Mission{},
		&internship.Internship{},
		&jobapplication.JobApplication{},
		&workhours.WorkHours{},
	); err != nil {
		return err
	}
	// the outbox table is managed with raw SQL, outside gorm
	return gormDB.Exec(outboxTableDDL).Error
}
