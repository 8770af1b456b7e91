package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/api/rest"
	"github.com/fortuna/gridiron/internal/api/websocket"
	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/fetch"
)

const serviceVersion = "1.0.0"

func init() {
	rootCmd.AddCommand(newServeCmd())
}

type serveConfig struct {
	DSN      string
	RedisURL string
	RESTPort string
	WSPort   string
	BaseURL  string
}

func loadServeConfig() serveConfig {
	return serveConfig{
		DSN:      getEnv("GRIDIRON_DSN", "gridiron.db"),
		RedisURL: getEnv("REDIS_URL", ""),
		RESTPort: getEnv("REST_PORT", "8080"),
		WSPort:   getEnv("WS_PORT", "8081"),
		BaseURL:  getEnv("STATS_BASE_URL", fetch.DefaultBaseURL),
	}
}

func newServeCmd() *cobra.Command {
	config := loadServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stats API service",
		Long: `Serve the stats database over a REST API with live scrape job
progress on a websocket. Scrape jobs queued through the API run in the
background one at a time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Printf("Starting gridiron v%s - Football Stats Service", serviceVersion)

			db, err := openStore(config.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Println("✓ Connected to stats database")

			// Static fetcher, wrapped with a page cache when redis is
			// configured.
			var static fetch.Client = fetch.NewStaticClient(config.BaseURL, 2*time.Second)
			if config.RedisURL != "" {
				pages, err := cache.NewPageCache(config.RedisURL, cache.DefaultTTL)
				if err != nil {
					log.Printf("⚠️  Redis unavailable, fetching without cache: %v", err)
				} else {
					defer pages.Close()
					static = fetch.NewCachedClient(static, pages, config.BaseURL)
					log.Println("✓ Connected to Redis page cache")
				}
			}

			// Rendered fetcher needs a local Chrome. Jobs fall back to the
			// static client when it is missing.
			var rendered fetch.Client
			if rc, err := fetch.NewRenderedClient(config.BaseURL); err != nil {
				log.Printf("⚠️  Headless browser unavailable: %v", err)
			} else {
				rendered = rc
				defer rc.Close()
				log.Println("✓ Headless browser ready")
			}

			jobs := backfill.NewService(db, static, rendered, log.Default())
			jobs.Start()
			log.Println("✓ Scrape job service started")

			restServer := rest.NewServer(config.RESTPort, db, jobs)
			go func() {
				if err := restServer.Start(); err != nil {
					log.Printf("REST server error: %v", err)
				}
			}()
			log.Printf("✓ REST API server listening on :%s", config.RESTPort)

			wsServer := websocket.NewServer(jobs)
			go func() {
				if err := wsServer.Start(config.WSPort); err != nil {
					log.Printf("WebSocket server error: %v", err)
				}
			}()
			log.Printf("✓ WebSocket server listening on :%s", config.WSPort)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			log.Println("Shutting down gridiron gracefully...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := jobs.Shutdown(shutdownCtx); err != nil {
				log.Printf("Job service shutdown error: %v", err)
			}
			if err := restServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("REST API server shutdown error: %v", err)
			}
			if err := wsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("WebSocket server shutdown error: %v", err)
			}

			log.Println("gridiron stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&config.DSN, "dsn", config.DSN, "database DSN (postgres:// URL or SQLite path)")
	cmd.Flags().StringVar(&config.RedisURL, "redis", config.RedisURL, "redis URL for page caching")
	cmd.Flags().StringVar(&config.RESTPort, "rest-port", config.RESTPort, "REST API port")
	cmd.Flags().StringVar(&config.WSPort, "ws-port", config.WSPort, "websocket port")
	cmd.Flags().StringVar(&config.BaseURL, "base-url", config.BaseURL, "season stats page base URL")

	return cmd
}
