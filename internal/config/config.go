package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string // dev, prod
	DataFile string // JSON state file
	CSVFile  string // patient identity mirror
	XLSXFile string // optional Excel bulk-import drop file
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:      getEnv("APP_ENV", "dev"),
		DataFile: getEnv("CLINIC_DATA_FILE", "records.json"),
		CSVFile:  getEnv("CLINIC_CSV_FILE", "records.csv"),
		XLSXFile: getEnv("CLINIC_XLSX_FILE", "records.xlsx"),
	}
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
