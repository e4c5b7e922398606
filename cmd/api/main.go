package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/config"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/leave-workflow-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-workflow-go/internal/repository/memory"
	"github.com/cmlabs-hris/leave-workflow-go/internal/repository/postgresql"
	auditService "github.com/cmlabs-hris/leave-workflow-go/internal/service/audit"
	leaveService "github.com/cmlabs-hris/leave-workflow-go/internal/service/leave"
	"github.com/jonboulle/clockwork"
)

const version = "v1.0.0"

type repositories struct {
	transactor    leave.Transactor
	employees     employee.EmployeeRepository
	holidays      holiday.HolidayRepository
	leaveRequests leave.LeaveRequestRepository
	audit         audit.AuditRepository
	close         func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	accountant := leaveService.NewBalanceAccountant(cfg.Leave.StandardEntitlement)

	repos, err := openRepositories(ctx, cfg, clock, accountant)
	if err != nil {
		return err
	}
	defer repos.close()

	audits := auditService.NewAuditService(repos.audit, repos.employees, clock)
	leaves := leaveService.NewLeaveService(
		repos.transactor,
		repos.leaveRequests,
		repos.employees,
		repos.holidays,
		audits,
		accountant,
		clock,
	)

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, clock)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, clock)

	scheduler := cron.NewScheduler(clock)
	if err := cron.RegisterHousekeepingJobs(scheduler, cfg.App.HousekeepingInterval, map[string]cron.Pruner{
		"rate_limiter":   rateLimiter.Prune,
		"revoked_tokens": jwtService.PruneRevokedTokens,
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RateLimiter:    rateLimiter,
			LogLevel:       cfg.SlogLevel(),
		},
		jwtService,
		appHTTP.NewAuthHandler(jwtService),
		appHTTP.NewLeaveHandler(leaves, audits),
		appHTTP.NewAuditHandler(audits),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "storage", cfg.Storage.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, clock clockwork.Clock, accountant *leaveService.BalanceAccountant) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		seeded := fixtures.SeedDemoData(store, clock.Now(), accountant.ProRatedEntitlement)
		slog.Info("In-memory store seeded", "employees", len(seeded.EmployeeIDs), "holidays", len(seeded.HolidayIDs))
		return &repositories{
			transactor:    store,
			employees:     memory.NewEmployeeRepository(store),
			holidays:      memory.NewHolidayRepository(store),
			leaveRequests: memory.NewLeaveRequestRepository(store),
			audit:         memory.NewAuditRepository(store),
			close:         func() {},
		}, nil

	default:
		dsn := cfg.DatabaseURL()
		if cfg.Database.MigrateOnStart {
			if err := database.Migrate(ctx, dsn); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.Options{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return &repositories{
			transactor:    postgresql.NewTransactor(db),
			employees:     postgresql.NewEmployeeRepository(db),
			holidays:      postgresql.NewHolidayRepository(db),
			leaveRequests: postgresql.NewLeaveRequestRepository(db),
			audit:         postgresql.NewAuditRepository(db),
			close:         db.Close,
		}, nil
	}
}
