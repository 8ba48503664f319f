package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raisehub/admin-manager/config"
	"github.com/raisehub/admin-manager/internal/cache"
	"github.com/raisehub/admin-manager/internal/seed"
	"github.com/raisehub/admin-manager/internal/service"
	"github.com/raisehub/admin-manager/internal/storefactory"
	"github.com/raisehub/admin-manager/log"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load base languages, dropdown options and the initial admin account",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	log.Init(&cfg.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := storefactory.New(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer repo.Close()

	c := cache.New(cfg.Cache)
	languageS := service.NewLanguage(repo, c)
	dropdownS := service.NewDropdown(repo, c, languageS)
	authS, err := service.NewAuth(&cfg.Auth, repo.Admin())
	if err != nil {
		return fmt.Errorf("cannot create auth service: %w", err)
	}

	s := seed.New(languageS, dropdownS, authS)
	return s.Run(ctx, seed.AdminCredentials{
		MasterPassword: cfg.Auth.MasterPassword,
		Username:       os.Getenv("SEED_ADMIN_USERNAME"),
		Password:       os.Getenv("SEED_ADMIN_PASSWORD"),
	})
}
