package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"hoaxify/internal/config"
	"hoaxify/internal/database"
	"hoaxify/internal/lifecycle"
	"hoaxify/internal/repository"
	"hoaxify/internal/storage"
)

type Context struct {
	Config *config.Config
	DB     *gorm.DB
}

var cli struct {
	EnvFile string `help:"Load environment from this file." default:".env" type:"path"`

	Attachments AttachmentsCmd `cmd:"" help:"Reclaim attachments that no hoax claimed within the retention window."`
	Tokens      TokensCmd      `cmd:"" help:"Delete expired login tokens."`
	All         AllCmd         `cmd:"" help:"Run every sweep once."`
}

type AttachmentsCmd struct {
	Retention string `help:"Override ATTACHMENT_RETENTION (e.g. 12h)."`
}

func (a *AttachmentsCmd) Run(ctx *Context) error {
	if a.Retention != "" {
		if err := overrideRetention(ctx.Config, a.Retention); err != nil {
			return err
		}
	}
	return runPass(attachmentSweeper(ctx))
}

type TokensCmd struct{}

func (t *TokensCmd) Run(ctx *Context) error {
	return runPass(tokenSweeper(ctx))
}

type AllCmd struct{}

func (a *AllCmd) Run(ctx *Context) error {
	// tokens first so that a failing attachment pass does not hide them
	tokenErr := runPass(tokenSweeper(ctx))
	if err := runPass(attachmentSweeper(ctx)); err != nil {
		return err
	}
	return tokenErr
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("sweep"),
		kong.Description("Run the reconciliation sweeps once and exit."),
	)

	if err := godotenv.Load(cli.EnvFile); err != nil {
		log.Printf("no env file loaded: %v", err)
	}
	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	db, err := database.Connect(cfg.DatabaseURL)
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(database.Migrate(db))

	err = kctx.Run(&Context{Config: cfg, DB: db})
	kctx.FatalIfErrorf(err)
}

func attachmentSweeper(ctx *Context) lifecycle.Sweeper {
	cfg := ctx.Config
	blobs := storage.NewLocal(filepath.Join(cfg.UploadDir, storage.AttachmentDir))
	return lifecycle.NewAttachmentSweeper(
		repository.NewAttachmentRepository(ctx.DB, cfg.Sweep.ReservationLease),
		blobs,
		lifecycle.AttachmentSweeperConfig{
			Retention:   cfg.Sweep.AttachmentRetention,
			CallTimeout: cfg.Sweep.CallTimeout,
		},
	)
}

func tokenSweeper(ctx *Context) lifecycle.Sweeper {
	return lifecycle.NewTokenSweeper(
		repository.NewTokenRepository(ctx.DB),
		lifecycle.TokenSweeperConfig{CallTimeout: ctx.Config.Sweep.CallTimeout},
	)
}

// runPass runs a single pass and fails if anything was left behind.
func runPass(s lifecycle.Sweeper) error {
	report := s.Run(context.Background())
	report.Log()
	if report.Err != nil {
		return report.Err
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%s sweep: %d candidates failed", report.Kind, len(report.Failures))
	}
	return nil
}

func overrideRetention(cfg *config.Config, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid retention %q: %w", value, err)
	}
	if d <= 0 {
		return fmt.Errorf("retention must be > 0")
	}
	cfg.Sweep.AttachmentRetention = d
	return nil
}
