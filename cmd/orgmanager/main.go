package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fredhutch/github-org-manager/pkg/api"
	"github.com/fredhutch/github-org-manager/pkg/auditlogger"
	"github.com/fredhutch/github-org-manager/pkg/compliance"
	"github.com/fredhutch/github-org-manager/pkg/config"
	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/fredhutch/github-org-manager/pkg/membership"
	"github.com/fredhutch/github-org-manager/pkg/version"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	err := run()
	if err != nil {
		log.Errorf("fatal: %s", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logr, err := logger.GetLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bt, _ := version.BuildTime()
	logr.Infof("github-org-manager version %s built on %s", version.Version(), bt)

	client := github.NewFromConfig(ctx, cfg.GitHub)
	audit := auditlogger.New(logr)

	members := membership.NewService(cfg.GitHub.Organization, client, audit, logr)
	offboarder := membership.NewOffboarder(cfg.GitHub.Organization, cfg.ProtectedTeam, client, audit, logr)

	var notifier compliance.Notifier
	if cfg.Compliance.IssueRepo != "" {
		notifier, err = compliance.NewNotifierFromConfig(ctx, cfg.GitHub.Token, cfg.GitHub.Organization, cfg.Compliance.IssueRepo)
		if err != nil {
			return err
		}
	}
	auditor := compliance.NewAuditor(cfg.GitHub.Organization, client, notifier, logr)

	handler := api.New(members, offboarder, auditor, logr)
	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: handler.Router(cfg.ApprovedIPs),
	}

	logr.Infof("ready to accept requests on %s", cfg.ListenAddress)

	go func() {
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			logr.Error(err)
		}
		logr.Infof("HTTP server finished, terminating...")
		cancel()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signals
		logr.Infof("received signal %s, terminating...", sig)
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
