package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/supply-bot/internal/bot"
	"github.com/Spok95/supply-bot/internal/config"
	"github.com/Spok95/supply-bot/internal/dialog"
	"github.com/Spok95/supply-bot/internal/export"
	httpx "github.com/Spok95/supply-bot/internal/infra/http"
	"github.com/Spok95/supply-bot/internal/infra/logger"
	"github.com/Spok95/supply-bot/internal/mail"
)

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if cfg.App.Timezone != "" {
		loc, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
			return
		}
		time.Local = loc
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("authorized", "bot", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	mailer := mail.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Login, cfg.SMTP.Password, cfg.SMTP.Receiver)
	machine := dialog.NewMachine(dialog.NewStore(), bot.NewFiles(api), export.NewExcel(), mailer, log)

	b := bot.New(api, log, machine)
	go func() {
		if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()
	log.Info("bot started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
