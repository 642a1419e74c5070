package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/pagectl/internal/config"
	"github.com/danmuck/pagectl/internal/logging"
	"github.com/danmuck/pagectl/internal/page"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pagectl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		profilePath = flag.String("profile", "profile.toml", "page profile (recipients, message, server)")
		clientPath  = flag.String("config", "", "optional client settings file (timeouts, debug)")
		debug       = flag.Bool("debug", false, "trace raw protocol lines")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	profile, err := config.LoadProfile(*profilePath)
	if err != nil {
		return err
	}

	cfg := config.SessionConfig(profile)
	if *clientPath != "" {
		fileCfg, err := loadClientConfig(*clientPath)
		if err != nil {
			return err
		}
		cfg.ConnectTimeout = fileCfg.ConnectTimeout
		cfg.Debug = fileCfg.Debug
	}
	if *debug {
		cfg.Debug = true
	}
	cfg.Logger = &log.Logger

	pager, err := page.New(config.Recipients(profile), config.Message(profile), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := pager.Quit(); err != nil {
			log.Warn().Err(err).Msg("quit")
		}
	}()
	if profile.Login != "" {
		pager.SetLogin(profile.Login, profile.Password)
	}

	receipt, err := pager.Send()
	if err != nil {
		return err
	}
	log.Info().
		Int("code", receipt.Code).
		Str("text", receipt.Text).
		Msg("page accepted")
	if receipt.Tag != "" {
		log.Info().
			Str("tag", receipt.Tag).
			Str("pass_code", receipt.PassCode).
			Msg("two-way page; query status with MSTA")
	}
	return nil
}
