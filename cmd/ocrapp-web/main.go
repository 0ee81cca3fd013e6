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

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/config"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/ocr"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/pipeline"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/server"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	engine := ocr.NewEngine(ocr.Config{
		Tesseract: cfg.TesseractPath,
		Pdftoppm:  cfg.PdftoppmPath,
		Languages: cfg.OCRLanguages,
		PSM:       cfg.OCRPageSegMode,
		DPI:       cfg.RasterDPI,
		MaxPages:  cfg.PDFMaxPages,
	}, logger)
	svc := pipeline.NewProcessingService(db, cfg, engine, logger)
	srv := server.New(db, cfg, svc, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		must(err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
