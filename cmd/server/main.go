package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/config"
	"github.com/adeka83-arch/systemklinik-sub003/internal/repository/mongodb"
	"github.com/adeka83-arch/systemklinik-sub003/internal/repository/sheets"
	"github.com/adeka83-arch/systemklinik-sub003/internal/scheduler"
	"github.com/adeka83-arch/systemklinik-sub003/internal/server/handlers"
	"github.com/adeka83-arch/systemklinik-sub003/internal/server/router"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
	reportingsvc "github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/clients/klinik"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/logger"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/printer"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, Console: cfg.Log.Console}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Clinic.Location()

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetWriter documents.SheetWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetWriter = sheetsRepo
	} else {
		baseLogger.Warn("google sheets export disabled")
	}

	klinikClient := klinik.NewClient(cfg.Klinik, loc, baseLogger.Named("client.klinik"))
	reportingSvc := reportingsvc.NewService(klinikClient, baseLogger.Named("svc.reporting"))

	filterBook := reportingsvc.NewFilterBook(func() time.Time { return time.Now().In(loc) })
	guard := reportingsvc.NewPeriodGuard(mongoRepo, filterBook, loc, baseLogger.Named("svc.period"))

	opener := printer.NewChromeOpener(printer.ChromeConfig{
		RemoteURL: cfg.Print.RemoteURL,
		NoSandbox: cfg.Print.NoSandbox,
		Timeout:   cfg.Print.Timeout,
		Logger:    baseLogger.Named("printer.chrome"),
	})
	defer func() { _ = opener.Close() }()

	previews := documents.NewPreviewStore(0)
	generator := documents.NewGenerator(
		documents.MustRenderer(),
		documents.NewPrintService(opener, cfg.Print.AssetDelay, baseLogger.Named("svc.print")),
		previews,
		documents.ClinicHeader{
			Name:    cfg.Clinic.Name,
			Address: cfg.Clinic.Address,
			Phone:   cfg.Clinic.Phone,
			LogoURL: cfg.Clinic.LogoURL,
		},
		loc,
		baseLogger.Named("svc.documents"),
	)

	reportHandler := handlers.NewReportHandler(reportingSvc, filterBook, generator, sheetWriter, loc, baseLogger.Named("handlers.reports"))
	engine := router.New(reportHandler, cfg.Server.AllowedOrigins, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, guard, reportingSvc, mongoRepo, previews, baseLogger.Named("scheduler"))
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := sched.RunPeriodCheck(startupCtx); err != nil {
		baseLogger.Error("startup period check failed", zap.Error(err))
	}
	startupCancel()
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Print.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
