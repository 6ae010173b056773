package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/goricci/mcp"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func (a *app) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool surface over HTTP",
		Long: `Serves the JSON tool surface for agent frameworks.

  POST /tool    execute a tool call
  GET  /schema  tool schema for agent registration
  GET  /health  health check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			gin.SetMode(gin.ReleaseMode)
			return serve(ctx, fmt.Sprintf(":%d", port), a.logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}

// serve runs the tool server until ctx is cancelled or the listener fails.
func serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(mcp.NewHandler(logger), logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("tool server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

// ============================================================
// Routes
// ============================================================

func newRouter(h *mcp.Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error("panic", "path", c.Request.URL.Path, "panic", rec, "stack", string(debug.Stack()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))

	router.POST("/tool", handleTool(h, logger))
	router.GET("/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(mcp.MCPToolSpec()))
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return router
}

func handleTool(h *mcp.Handler, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		defer c.Request.Body.Close()

		dec := json.NewDecoder(c.Request.Body)
		dec.DisallowUnknownFields()

		var req mcp.ToolRequest
		if err := dec.Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if dec.More() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := h.Call(req)
		logger.Info("tool", "name", req.Tool, "ok", resp.Error == "", "elapsed", time.Since(start))
		c.JSON(http.StatusOK, resp)
	}
}
