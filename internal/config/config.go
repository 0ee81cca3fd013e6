package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	UploadDir string
	OutputDir string

	TesseractPath  string
	PdftoppmPath   string
	OCRLanguages   string
	OCRPageSegMode int
	RasterDPI      int
	PDFMaxPages    int

	// A PDF whose direct text pass yields fewer records than this triggers
	// the rasterize-and-OCR fallback.
	OCRFallbackMinRecords int

	ListenAddr     string
	ExportFilename string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		UploadDir: getEnv("UPLOAD_DIR", filepath.Join(cwd, "data", "uploads")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		TesseractPath:  getEnv("TESSERACT_PATH", "tesseract"),
		PdftoppmPath:   getEnv("PDFTOPPM_PATH", "pdftoppm"),
		OCRLanguages:   getEnv("OCR_LANGUAGES", "rus+eng"),
		OCRPageSegMode: getEnvInt("OCR_PSM", 6),
		RasterDPI:      getEnvInt("RASTER_DPI", 300),
		PDFMaxPages:    getEnvInt("PDF_MAX_PAGES", 0),

		OCRFallbackMinRecords: getEnvInt("OCR_FALLBACK_MIN_RECORDS", 3),

		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		ExportFilename: getEnv("EXPORT_FILENAME", "extracted_data.xlsx"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
