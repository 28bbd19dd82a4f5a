package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/encryption"
	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/endpoints"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerConfig holds configuration for a scoped test server instance
type ServerConfig struct {
	Frameworks    []string
	ExportFormats []string
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Frameworks:    config.ValidFrameworks,
		ExportFormats: config.ValidExportFormats,
	}
}

// ServerInstance represents a running server scoped to a single test
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd // For binary mode
	inlineMode    bool
}

// StartServer creates and starts a new server instance with the given DB URL.
// This supports both inline and binary modes based on how the test suite was started.
func StartServer(tc *TestContext, dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(dbURL, tc.Cipher, tc.DataKey, tc.UploadsDir, cfg)
	}
	return startBinaryServerInstance(tc.BinaryPath, dbURL, tc.DataKey, tc.UploadsDir, cfg)
}

// startInlineServerInstance starts an in-process server
func startInlineServerInstance(dbURL string, cipher encryption.SymmetricCipher, dataKey []byte, uploadsDir string, cfg ServerConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))

	// Create DB connection for this server instance
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dbURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Add cipher to DB context
	dbCtx := context.WithValue(context.Background(), model.CipherContextKeyValue, cipher)
	db = db.WithContext(dbCtx)

	serverCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	serverCfg.UploadsDir = uploadsDir
	serverCfg.Frameworks = cfg.Frameworks
	serverCfg.ExportFormats = cfg.ExportFormats

	// Create server
	s := server.NewServer(serverCfg, cipher, dataKey, db, "127.0.0.1", fmt.Sprintf("%d", port))
	endpoints.RegisterAll(s)

	// Create a listener to get the actual port
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	_, cancel := context.WithCancel(context.Background())

	instance := &ServerInstance{
		Server:     s,
		ServerURL:  fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:       port,
		Config:     cfg,
		cancel:     cancel,
		listener:   listener,
		inlineMode: true,
	}

	// Start server in background using the listener
	go func() {
		_ = s.StartWithListener(listener)
	}()

	// Wait for server to be ready
	if err := waitForServerWithTimeout(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts a server using the complyctl binary
func startBinaryServerInstance(binaryPath, dbURL string, dataKey []byte, uploadsDir string, cfg ServerConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := fmt.Sprintf("%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"COMPLY_DATA_KEY="+base64.StdEncoding.EncodeToString(dataKey),
		"COMPLY_UPLOADS_DIR="+uploadsDir,
		"COMPLY_FRAMEWORKS="+strings.Join(cfg.Frameworks, ","),
		"COMPLY_EXPORT_FORMATS="+strings.Join(cfg.ExportFormats, ","),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		cancel:        cancel,
		serverProcess: cmd,
		inlineMode:    false,
	}

	// Wait for server to be ready
	if err := waitForServerWithTimeout(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// waitForServerWithTimeout polls the server until it responds or times out
func waitForServerWithTimeout(serverURL string, timeout time.Duration) error {
	return waitForServer(serverURL, timeout)
}
