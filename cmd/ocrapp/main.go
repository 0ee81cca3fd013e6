package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/config"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/ocr"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/pipeline"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		paths, err := expandPaths(fs.Args())
		must(err)
		if len(paths) == 0 {
			must(fmt.Errorf("at least one file path is required"))
		}

		engine := ocr.NewEngine(ocr.Config{
			Tesseract: cfg.TesseractPath,
			Pdftoppm:  cfg.PdftoppmPath,
			Languages: cfg.OCRLanguages,
			PSM:       cfg.OCRPageSegMode,
			DPI:       cfg.RasterDPI,
			MaxPages:  cfg.PDFMaxPages,
		}, nil)
		svc := pipeline.NewProcessingService(db, cfg, engine, nil)

		results := svc.ProcessBatch(context.Background(), paths)
		failed := 0
		for _, res := range results {
			if res.Status == "failed" {
				failed++
				fmt.Printf("failed %s: %s\n", res.Filename, res.Error)
				continue
			}
			fmt.Printf("processed %s documentId=%d records=%d\n", res.Filename, res.DocumentID, res.Records)
		}
		if failed > 0 {
			fmt.Printf("done with errors: %d of %d files failed\n", failed, len(results))
		}
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		docID := fs.Int("doc", 0, "document id, 0 = all documents")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])

		path := strings.TrimSpace(*out)
		if path == "" {
			path = filepath.Join(cfg.OutputDir, cfg.ExportFilename)
		}
		records, err := db.ListRecords(*docID)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no records to export"))
		}
		must(pipeline.ExportRecordsToXLSX(records, path))
		fmt.Printf("exported %d records to %s\n", len(records), path)
	case "stats":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		docID := fs.Int("doc", 0, "document id, 0 = all documents")
		_ = fs.Parse(os.Args[2:])

		records, err := db.ListRecords(*docID)
		must(err)
		blob, err := json.MarshalIndent(pipeline.Summarize(records), "", "  ")
		must(err)
		fmt.Println(string(blob))
	case "documents":
		docs, err := db.ListDocuments()
		must(err)
		for _, doc := range docs {
			fmt.Printf("%d\t%s\t%s\t%s\n", doc.ID, doc.Status, doc.Filename, doc.UpdatedAt)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// expandPaths replaces directory arguments with their regular files, one
// level deep. Files keep the order they were given in.
func expandPaths(args []string) ([]string, error) {
	out := []string{}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				out = append(out, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return out, nil
}

func usage() {
	fmt.Println("usage: ocrapp <command>")
	fmt.Println("commands:")
	fmt.Println("  process <file-or-dir> [file-or-dir...]")
	fmt.Println("  export [--doc=1] [--out=./out/result.xlsx]")
	fmt.Println("  stats [--doc=1]")
	fmt.Println("  documents")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
