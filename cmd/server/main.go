package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "clubhouse/internal/adapters/email"
	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/storage"
	accountStore "clubhouse/internal/adapters/storage/account"
	activityStore "clubhouse/internal/adapters/storage/activity"
	auditStore "clubhouse/internal/adapters/storage/audit"
	equipmentStore "clubhouse/internal/adapters/storage/equipment"
	memberStore "clubhouse/internal/adapters/storage/member"
	messageStore "clubhouse/internal/adapters/storage/message"
	organizationStore "clubhouse/internal/adapters/storage/organization"
	periodStore "clubhouse/internal/adapters/storage/period"
	settingsStore "clubhouse/internal/adapters/storage/settings"
	stampStore "clubhouse/internal/adapters/storage/stamp"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/config"
	"clubhouse/internal/jobs"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	// WAL mode and a busy timeout keep concurrent request handling and
	// the scheduler from tripping over each other.
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		slog.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		slog.Error("db_unreachable", "error", err)
		os.Exit(1)
	}

	if err := storage.MigrateDB(db); err != nil {
		slog.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		OrganizationStore: organizationStore.NewSQLiteStore(db),
		MemberStore:       memberStore.NewSQLiteStore(db),
		PeriodStore:       periodStore.NewSQLiteStore(db),
		SettingsStore:     settingsStore.NewSQLiteStore(db),
		ActivityStore:     activityStore.NewSQLiteStore(db),
		EquipmentStore:    equipmentStore.NewSQLiteStore(db),
		StampStore:        stampStore.NewSQLiteStore(db),
		MessageStore:      messageStore.NewSQLiteStore(db),
		AuditStore:        auditStore.NewSQLiteStore(db),
	}

	err = orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		AdminEmail:       cfg.AdminEmail,
		AdminPassword:    cfg.AdminPassword,
		OrganizationName: cfg.OrganizationName,
	}, orchestrators.SeedAdminDeps{
		AccountStore:      stores.AccountStore,
		OrganizationStore: stores.OrganizationStore,
		Now:               time.Now,
		GenerateID:        uuid.NewString,
	})
	if err != nil {
		slog.Error("seed_admin_failed", "error", err)
		os.Exit(1)
	}

	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom))
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if cfg.Production() {
			slog.Warn("email_delivery_disabled", "hint", "set CLUBHOUSE_RESEND_KEY for real delivery")
		}
	}

	scheduler := jobs.NewScheduler(stores)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	mux := web.NewMux(stores, cfg.CSRFKeyBytes(), cfg.Production())

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}
