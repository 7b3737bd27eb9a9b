package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/actions"
	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/server"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := config.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "config"}).Fatal(err.Error())
	}

	if cfg.BillPhotoFolder == "" {
		logger.WithFields(logrus.Fields{"field": "config"}).Warn("BILL_PHOTO_FOLDER is not set; bill photo uploads will be refused")
	}

	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	client, err := sheets.NewClient(cfg.GatewayURL, cfg.GatewayTimeout, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "gateway"}).Fatal(err.Error())
	}

	// Delayed refreshes run on this context and stop at shutdown.
	storeCtx, cancelStore := context.WithCancel(context.Background())
	defer cancelStore()
	st := store.New(storeCtx, client, logger)
	st.UpdateAll(storeCtx)

	svc := actions.NewService(client, st, logger, actions.Options{
		BillPhotoFolder: cfg.BillPhotoFolder,
		RefreshDelay:    cfg.RefreshDelay,
	})

	if cfg.Production {
		server.SetReleaseMode()
	}
	r := server.New(server.Deps{
		Store:              st,
		Actions:            svc,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Production:         cfg.Production,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"sheets": len(st.Names()),
	}).Info("indent tracker listening")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	cancelStore()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
