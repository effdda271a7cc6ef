package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"modkeeper/cmd/root"
	"modkeeper/controllers"
	"modkeeper/internal/config"
	"modkeeper/internal/logger"
	"modkeeper/internal/middleware"
	"modkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

var optNoSocket bool

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the mod manager as an HTTP daemon",
	Long:  "Serve the mod management API on the configured unix socket and TCP address until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return startServer(ctx, config.App())
	},
}

/**
 * Build the gin engine with middleware and all controllers
 * @param {*services.Server} server - Server providing mods and health
 * @returns {*gin.Engine} Router ready to serve
 */
func NewRouter(server *services.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.MetricsMiddleware())

	controllers.NewAPIController(server).RegisterRoutes(router)
	controllers.NewModController(server.Mods()).RegisterRoutes(router)
	return router
}

/**
 * Start the daemon and block until ctx ends
 * @param {context.Context} ctx - Cancelled on SIGINT/SIGTERM
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {error} Startup errors, or nil after a graceful shutdown
 * @description
 * - Loads the installed record and the catalog before accepting requests
 * - Listens on the unix socket and the TCP address, at least one must succeed
 * - Refreshes the catalog periodically in the background
 */
func startServer(ctx context.Context, cfg *config.AppConfig) error {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	mods, err := services.InitModManager(ctx, cfg)
	if err != nil {
		return err
	}
	server := services.NewServer(cfg, mods)
	router := NewRouter(server)

	listeners, err := CreateListeners(listenAddrs(cfg))
	if len(listeners) == 0 {
		return fmt.Errorf("no listener available: %v", err)
	}

	httpServer := &http.Server{Handler: router}
	var wg conc.WaitGroup
	for _, l := range listeners {
		l := l
		logger.Infof("Listening on %s://%s", l.Addr().Network(), l.Addr().String())
		wg.Go(func() {
			if err := httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Serve on %s failed: %v", l.Addr().String(), err)
			}
		})
	}
	wg.Go(func() { server.StartCatalogRefresh(ctx) })

	<-ctx.Done()
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	wg.Wait()
	if cfg.Server.Socket != "" && !optNoSocket {
		os.Remove(cfg.Server.Socket)
	}
	logger.Info("Server stopped")
	return nil
}

func listenAddrs(cfg *config.AppConfig) []ListenAddr {
	var addrs []ListenAddr
	if cfg.Server.Socket != "" && !optNoSocket && IsUnixSocketSupported() {
		// 确保socket目录存在
		if err := os.MkdirAll(filepath.Dir(cfg.Server.Socket), 0700); err != nil {
			logger.Warnf("Create socket directory failed: %v", err)
		} else {
			addrs = append(addrs, ListenAddr{Network: "unix", Address: cfg.Server.Socket})
		}
	}
	if cfg.Server.Address != "" {
		addrs = append(addrs, ListenAddr{Network: "tcp", Address: cfg.Server.Address})
	}
	return addrs
}

func init() {
	serverCmd.Flags().BoolVar(&optNoSocket, "no-socket", false, "listen on TCP only")
	root.RootCmd.AddCommand(serverCmd)
}
