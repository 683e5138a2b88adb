package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/snaptext/snaptext/internal/batch"
	"github.com/snaptext/snaptext/internal/config"
	"github.com/snaptext/snaptext/internal/history"
	"github.com/snaptext/snaptext/internal/ingest"
	"github.com/snaptext/snaptext/internal/ocr"
	"github.com/snaptext/snaptext/internal/pdf"
	"github.com/snaptext/snaptext/internal/scanner"
	"github.com/snaptext/snaptext/internal/translate"
	"github.com/snaptext/snaptext/pkg/logger"
	"github.com/snaptext/snaptext/pkg/models"
	"github.com/snaptext/snaptext/pkg/version"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inputPath := flag.String("input", "", "image/PDF file or directory to process (overrides config)")
	historyDir := flag.String("history-dir", "", "directory for the local history store (overrides config)")
	doTranslate := flag.Bool("translate", false, "translate recognized text")
	targetLang := flag.String("target-lang", "", "translation target language code (overrides config)")
	sourceLang := flag.String("source-lang", "", "translation source language code (overrides config)")
	contrast := flag.Float64("contrast", 1.2, "contrast adjustment [0.8,1.8]")
	brightness := flag.Int("brightness", 5, "brightness adjustment [-15,15]")
	sharpness := flag.Int("sharpness", 0, "sharpen strength [0,10]")
	denoise := flag.Bool("denoise", false, "apply 3x3 mean denoise filter")
	listHistory := flag.Bool("list-history", false, "list history records and exit")
	clearHistory := flag.Bool("clear-history", false, "remove all history records and exit")
	deleteHistory := flag.Int64("delete-history", 0, "delete the history record with this id and exit")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return
	}

	log := logger.New(logger.WithPrefix("[snaptext] "))
	log.SetVerbose(*verbose)
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	// .env overlay for endpoint/language overrides; absence is fine.
	_ = godotenv.Load()

	cfg := loadConfig(*configPath, log)

	if *historyDir != "" {
		cfg.HistoryDir = *historyDir
	}
	if *targetLang != "" {
		cfg.Translation.TargetLang = *targetLang
	}
	if *sourceLang != "" {
		cfg.Translation.SourceLang = *sourceLang
	}
	if endpoint := os.Getenv("SNAPTEXT_TRANSLATE_ENDPOINT"); endpoint != "" {
		cfg.Translation.Endpoint = endpoint
	}

	procOpts := cfg.Processing
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "contrast":
			procOpts.Contrast = *contrast
		case "brightness":
			procOpts.Brightness = *brightness
		case "sharpness":
			procOpts.Sharpness = *sharpness
		case "denoise":
			procOpts.Denoise = *denoise
		}
	})
	procOpts = procOpts.Clamped()

	store, err := history.Open(cfg.HistoryDir, log)
	if err != nil {
		log.Fatal("Error opening history store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	switch {
	case *listHistory:
		printHistory(store, log)
		return
	case *clearHistory:
		if err := store.Clear(); err != nil {
			log.Fatal("Error clearing history: %v", err)
		}
		log.Info("History cleared")
		return
	case *deleteHistory != 0:
		if _, err := store.Delete(*deleteHistory); err != nil {
			log.Fatal("Error deleting history record: %v", err)
		}
		log.Info("Deleted history record %d", *deleteHistory)
		return
	}

	input := *inputPath
	if input == "" {
		input = cfg.InputDir
	}
	if _, err := os.Stat(input); err != nil {
		log.Fatal("Input does not exist: %s", input)
	}

	items := collectItems(ctx, input, log)
	if len(items) == 0 {
		log.Fatal("Nothing to process in %s", input)
	}

	log.Info("Processing %d items", len(items))

	engine := ocr.NewTesseract(cfg.OCR.Languages...)
	runner := batch.New(engine, store, log,
		batch.WithResize(cfg.Resize.MaxWidth, cfg.Resize.Quality),
		batch.WithOnResult(func(res models.BatchResult) {
			log.Debug("Completed item %s", res.ID)
		}),
	)

	report := batch.NewReport()
	results, err := runner.Run(ctx, items, procOpts)
	if err != nil {
		log.Fatal("Batch run aborted: %v", err)
	}
	report.Finish(runner.StatusSnapshot())

	var translator *translate.Client
	if *doTranslate {
		translator = translate.NewClient(log, translate.WithEndpoint(cfg.Translation.Endpoint))
	}

	for _, res := range results {
		if res.IsPdfPage {
			log.Info("--- Page %d ---", res.PageNumber)
		} else {
			log.Info("--- %s ---", res.ID)
		}
		fmt.Println(res.Text)

		if translator != nil && res.Text != ocr.FailureText {
			translated := translator.Translate(ctx, res.Text, cfg.Translation.TargetLang, cfg.Translation.SourceLang)
			if translated != "" {
				log.Info("--- Translation ---")
				fmt.Println(translated)
			}
		}
	}

	report.Print(log)
}

func loadConfig(path string, log *logger.Logger) *config.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug("Config file %s not found, using defaults", path)
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}
	return cfg
}

func collectItems(ctx context.Context, input string, log *logger.Logger) []models.BatchItem {
	rasterizer := pdf.NewRasterizer(log)

	var files []string
	info, err := os.Stat(input)
	if err != nil {
		log.Fatal("Error reading input: %v", err)
	}

	if info.IsDir() {
		dirScanner := scanner.New(log)
		found, err := dirScanner.FindInputs(ctx, input)
		if err != nil {
			log.Fatal("Error scanning %s: %v", input, err)
		}
		for _, f := range found {
			files = append(files, f.AbsolutePath)
		}
	} else {
		files = []string{input}
	}

	var items []models.BatchItem
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Skipping %s: %v", path, err)
			continue
		}

		src, err := ingest.Resolve(data)
		if err != nil {
			log.Warn("Skipping %s: %v", path, err)
			continue
		}

		fileItems, err := ingest.Items(ctx, src, rasterizer)
		if err != nil {
			log.Warn("Skipping %s: %v", path, err)
			continue
		}

		items = append(items, fileItems...)
	}

	return items
}

func printHistory(store *history.Store, log *logger.Logger) {
	records, err := store.List()
	if err != nil {
		log.Fatal("Error listing history: %v", err)
	}

	if len(records) == 0 {
		log.Info("History is empty")
		return
	}

	log.Info("%d history records:", len(records))
	for _, rec := range records {
		text := rec.TextContent
		if len(text) > 60 {
			text = text[:60] + "..."
		}
		log.Info("  %d  %s  %q", rec.ID, rec.CreatedAt, text)
	}
}
