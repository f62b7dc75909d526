package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jon4hz/vazby/internal/api"
	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/config"
	"github.com/jon4hz/vazby/internal/database"
	"github.com/jon4hz/vazby/internal/directory"
	"github.com/jon4hz/vazby/internal/notify/email"
	"github.com/jon4hz/vazby/internal/scheduler"
)

const digestJobID = "pending-digest"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vazby server",
	Long:  `Start the vazby API server and, if enabled, the pending-approval digest job.`,
	Example: `vazby serve --config config.yml
vazby serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if log.GetLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint: errcheck

	engine := directory.New(db, audit.New(db), auth.NewHasher(cfg.Auth.BcryptCost))

	server, err := api.New(cfg, db, engine)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	if cfg.DigestEnabled() {
		sched, err := newDigestScheduler(cfg, db)
		if err != nil {
			log.Fatalf("failed to create scheduler: %v", err)
		}
		sched.Start()
		g.Go(func() error {
			<-ctx.Done()
			return sched.Stop()
		})
	}

	log.Info("vazby started successfully")
	if err := g.Wait(); err != nil {
		log.Fatalf("vazby stopped with error: %v", err)
	}
	log.Info("vazby stopped")
}

func newDigestScheduler(cfg *config.Config, db database.DB) (*scheduler.Scheduler, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, err
	}

	digester := email.NewDigester(db, email.New(cfg.Email), cfg.ServerURL)
	if err := sched.AddCronJob(digestJobID, "Pending approval digest", cfg.Digest.Schedule, func(ctx context.Context) error {
		return digester.Run(ctx)
	}, true); err != nil {
		_ = sched.Stop()
		return nil, err
	}
	return sched, nil
}
