package main

import (
	"fmt"
	"os"

	"github.com/baylot/lotops/internal/auth"
	"github.com/baylot/lotops/internal/config"
	"github.com/baylot/lotops/internal/db"
	"github.com/baylot/lotops/internal/excel"
	"github.com/baylot/lotops/internal/fees"
	httphandler "github.com/baylot/lotops/internal/http"
	"github.com/baylot/lotops/internal/http/middleware"
	"github.com/baylot/lotops/internal/logger"
	"github.com/baylot/lotops/internal/pdf"
	"github.com/baylot/lotops/internal/repository"
	"github.com/baylot/lotops/internal/rules"
	"github.com/baylot/lotops/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	schedule, err := fees.LoadSchedule(cfg.Lot.FeeTemplatePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Lot.FeeTemplatePath).Msg("failed to load fee templates")
	}

	params := rules.DefaultParams()
	params.InvoluntaryTowsEnabled = cfg.Lot.InvoluntaryTowsEnabled
	params.MaxAdminFee = cfg.Lot.MaxAdminFee
	params.MaxLienFee = cfg.Lot.MaxLienFee
	params.TowStorageExemptionHours = cfg.Lot.TowStorageExemptionHours
	engine := rules.NewEngine(params, nil)

	contractRepo := repository.NewContractRepository(database)
	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	contractService := service.NewContractService(contractRepo, engine, schedule, cfg.Lot.FeeTemplatePath, pdfGenerator, excelGenerator)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().
		Str("addr", addr).
		Bool("involuntary_tows", cfg.Lot.InvoluntaryTowsEnabled).
		Msg("starting lot service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
