package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/config"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/mcp"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/sqlite"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/storage"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("NESTOGY_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	templateRepo := sqlite.NewTemplateRepository(db)
	versionRepo := sqlite.NewVersionRepository(db)
	negotiationRepo := sqlite.NewNegotiationRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	contractRepo := sqlite.NewContractRepository(db)
	keyStore := sqlite.NewAPIKeyStore(db)

	blobs, err := newBlobStore(cfg, logger)
	if err != nil {
		logger.Error("failed to configure attachment storage", "error", err)
		os.Exit(1)
	}

	templateSvc := template.NewService(templateRepo, nil, activityRepo, logger)
	versionSvc := version.NewService(versionRepo, contractRepo, activityRepo, logger)
	negotiationSvc := negotiation.NewService(negotiationRepo, versionSvc, nil, activityRepo, logger)
	commentSvc := comment.NewService(commentRepo, blobs, nil, activityRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Templates:    templateSvc,
			Versions:     versionSvc,
			Negotiations: negotiationSvc,
			Comments:     commentSvc,
			Activity:     activitySvc,
		},
		Resolver:      &apiKeyResolver{keys: keyStore},
		AuthEnabled:   cfg.Transport.Mode != "stdio",
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	api := transport.NewAPI(transport.Services{
		Templates:    templateSvc,
		Versions:     versionSvc,
		Negotiations: negotiationSvc,
		Comments:     commentSvc,
		Activity:     activitySvc,
		Contracts:    contractRepo,
	}, &transport.Authenticator{
		JWTSecret: cfg.Auth.JWTSecret,
		Keys:      keyStore,
	}, logger)

	runHTTPMode(logger, api, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

func newBlobStore(cfg config.Config, logger *slog.Logger) (comment.BlobStore, error) {
	if !cfg.Minio.Enabled() {
		logger.Warn("object storage not configured, attachments held in memory")
		return storage.NewMemoryStore(), nil
	}

	store, err := storage.NewMinioStore(storage.Options{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	stdio := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, stdio); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, api *transport.API, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := api.Router()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a single log file and trims it back to
// keepLogSizeBytes once it grows past maxLogSizeBytes.
type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}

// apiKeyResolver adapts the API key store to MCP bearer auth.
type apiKeyResolver struct {
	keys *sqlite.APIKeyStore
}

func (r *apiKeyResolver) ResolveTenant(ctx context.Context, token string) (string, error) {
	tenantID, err := r.keys.TenantForKey(ctx, transport.HashKey(token))
	if err != nil {
		return "", err
	}
	if tenantID == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return tenantID, nil
}
