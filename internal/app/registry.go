package app

import (
	"database/sql"
	"path/filepath"

	"github.com/Wael-BenAbid/vfRH/internal/auth"
	"github.com/Wael-BenAbid/vfRH/internal/authz/infra"
	"github.com/Wael-BenAbid/vfRH/internal/identity"
	"github.com/Wael-BenAbid/vfRH/internal/internship"
	"github.com/Wael-BenAbid/vfRH/internal/jobapplication"
	"github.com/Wael-BenAbid/vfRH/internal/leave"
	"github.com/Wael-BenAbid/vfRH/internal/mission"
	"github.com/Wael-BenAbid/vfRH/internal/notification"
	"github.com/Wael-BenAbid/vfRH/internal/workhours"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	identityRepo := identity.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	missionRepo := mission.NewRepository(gormDB)
	internshipRepo := internship.NewRepository(gormDB)
	jobApplicationRepo := jobapplication.NewRepository(gormDB)
	workHoursRepo := workhours.NewRepository(gormDB)
	outboxRepo := notification.NewOutboxRepository(db)

	// --- Route-level policy ---
	enforcer, err := infra.NewEnforcer(
		filepath.Join("internal", "authz", "infra", "model.conf"),
		filepath.Join("internal", "authz", "infra", "policy.csv"),
	)
	if err != nil {
		return err
	}

	// --- Services ---
	identityService := identity.NewService(db, identityRepo, outboxRepo, rdb)
	authService := auth.NewService(identityRepo)
	leaveService := leave.NewService(db, leaveRepo)
	missionService := mission.NewService(db, missionRepo)
	internshipService := internship.NewService(db, internshipRepo)
	jobApplicationService := jobapplication.NewService(db, jobApplicationRepo, outboxRepo)
	workHoursService := workhours.NewService(db, workHoursRepo)

	// --- Handlers ---
	identityHandler := identity.NewHandler(identityService)
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	missionHandler := mission.NewHandler(missionService)
	internshipHandler := internship.NewHandler(internshipService)
	jobApplicationHandler := jobapplication.NewHandler(jobApplicationService)
	workHoursHandler := workhours.NewHandler(workHoursService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		identity.RegisterRoutes(api, identityHandler, enforcer, rdb)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb)
		mission.RegisterRoutes(api, missionHandler, enforcer, rdb)
		internship.RegisterRoutes(api, internshipHandler, enforcer)
		jobapplication.RegisterRoutes(api, jobApplicationHandler, enforcer, rdb)
		workhours.RegisterRoutes(api, workHoursHandler, enforcer)
	}

	return nil
}
