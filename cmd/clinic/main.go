package main

import (
	"os"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/cli"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/clinic"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/config"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/observability"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/store"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	log.Info().Str("env", cfg.Env).Str("data_file", cfg.DataFile).Msg("clinic starting up")

	sess := clinic.NewSession(log)
	fileStore := store.NewFileStore(cfg.DataFile, cfg.CSVFile, cfg.XLSXFile, log)

	report, err := fileStore.Load(sess)
	if err != nil {
		log.Fatal().Err(err).Msg("load state")
	}
	if n := report.CSVImported + report.XLSXImported; n > 0 {
		log.Info().
			Int("csv", report.CSVImported).
			Int("xlsx", report.XLSXImported).
			Msg("imported patients from tabular files")
		if err := fileStore.Save(sess); err != nil {
			log.Error().Err(err).Msg("persist imported patients")
		}
	}

	cli.NewRunner(sess, fileStore, os.Stdin, os.Stdout, log).Run()

	log.Info().Msg("clinic shutting down")
}
