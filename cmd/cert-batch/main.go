package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/dates"
	"github.com/fleetdocs/shipcert/internal/docai"
	"github.com/fleetdocs/shipcert/internal/export"
	"github.com/fleetdocs/shipcert/internal/extract"
	"github.com/fleetdocs/shipcert/internal/llm"
	"github.com/fleetdocs/shipcert/internal/llm/openai"
	"github.com/fleetdocs/shipcert/internal/pipeline"
	repo "github.com/fleetdocs/shipcert/internal/repository"
	"github.com/fleetdocs/shipcert/internal/storage"
	"github.com/fleetdocs/shipcert/internal/survey"
	"github.com/fleetdocs/shipcert/internal/validate"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		imo        = flag.String("imo", "", "IMO number of the target ship (required)")
		dir        = flag.String("dir", "", "directory of scanned certificates to process (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		cfgPath    = flag.String("config", "config.yaml", "config file path")
		noUpload   = flag.Bool("no-upload", false, "skip uploading accepted files to the document store")
		refreshDoc = flag.Bool("refresh-docking", true, "re-derive docking dates after processing")
	)
	flag.Parse()

	if *imo == "" || *dir == "" {
		printError("Error: --imo and --dir are required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "compliance.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg, err := common.LoadConfig(*cfgPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pool, err := repo.Open(ctx, repo.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(pool, logger)

	certsRepo := repo.NewCertificateRepository(pool, logger)
	shipsRepo := repo.NewShipRepository(pool, logger)

	ship, err := shipsRepo.GetByIMO(ctx, *imo)
	if err != nil {
		logger.Error("ship not found", "imo", *imo, "error", err)
		os.Exit(1)
	}
	logger.Info("processing for ship", "id", ship.ID, "name", ship.Name, "imo", ship.IMO)

	summarizer, err := docai.NewVertexSummarizer(ctx, docai.Config{
		ProjectID: cfg.DocAI.ProjectID,
		Region:    cfg.DocAI.Region,
		Model:     cfg.DocAI.Model,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize document summarizer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = summarizer.Close() }()

	openaiClient := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	var extractor llm.FieldExtractor = llm.NewBreakerExtractor(openaiClient, logger)

	tiers := []extract.Tier{
		extract.NewAITier(extractor, logger),
		extract.NewManualTier(logger),
		extract.NewRegexTier(logger),
	}

	var uploader storage.Uploader
	if !*noUpload && cfg.Storage.Bucket != "" {
		gcsUploader, err := storage.NewGCSUploader(ctx, storage.Config{
			Bucket:     cfg.Storage.Bucket,
			FolderRoot: cfg.Storage.FolderRoot,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize file storage", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gcsUploader.Close() }()
		uploader = gcsUploader
	} else {
		logger.Warn("file upload disabled; certificates will be filed without stored scans")
	}

	parser := dates.NewParser()
	orchestrator := pipeline.NewOrchestrator(
		logger,
		summarizer,
		tiers,
		parser,
		validate.NewIdentityValidator(logger),
		validate.NewDuplicateDetector(certsRepo, cfg.Extraction.DuplicateThreshold, logger),
		certsRepo,
		shipsRepo,
		uploader,
		cfg.Extraction.MinConfidence,
	)

	files, err := collectFiles(*dir)
	if err != nil {
		logger.Error("failed to read input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("starting batch", "dir", *dir, "files", len(files))

	results, err := orchestrator.ProcessBatch(ctx, ship.ID, files)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	counts := map[constants.FileStatus]int{}
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case constants.FileStatusCreated, constants.FileStatusReferenceOnly:
			fmt.Printf("  OK    %-40s %s\n", r.Filename, r.CertificateID)
		default:
			fmt.Printf("  %-5s %-40s %s\n", shortStatus(r.Status), r.Filename, r.Message)
		}
	}

	calc := survey.NewCalculator(survey.WindowConfig{
		DueSoonDays:      cfg.Extraction.CriticalDueSoonDays,
		BadlyOverdueDays: cfg.Extraction.CriticalOverdueDays,
	})
	compliance := pipeline.NewComplianceService(logger, certsRepo, shipsRepo, calc,
		survey.NewDockingExtractor(parser, logger))

	if *refreshDoc {
		if dd, err := compliance.RefreshDockingDates(ctx, ship.ID); err != nil {
			// missing docking data is a normal outcome, not a failure
			logger.Warn("docking dates not updated", "error", err)
		} else {
			logger.Info("docking dates updated",
				"last_docking", dd.LastDocking.Format("2006-01-02"))
		}
		if n, err := compliance.RefreshNextSurveyDates(ctx, ship.ID); err != nil {
			logger.Warn("next survey dates not refreshed", "error", err)
		} else if n > 0 {
			logger.Info("next survey dates refreshed", "updated", n)
		}
	}

	exportService := export.NewService(shipsRepo, compliance, logger)
	xlsxBytes, err := exportService.ExportComplianceXLSX(ctx, ship.ID)
	if err != nil {
		logger.Error("failed to export compliance report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files", len(results),
		"created", counts[constants.FileStatusCreated],
		"reference_only", counts[constants.FileStatusReferenceOnly],
		"rejected", counts[constants.FileStatusRejected],
		"pending_duplicates", counts[constants.FileStatusPendingDuplicate],
		"extraction_failed", counts[constants.FileStatusExtractionFailed],
		"errors", counts[constants.FileStatusError],
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", len(results))
	fmt.Printf("- Certificates created: %d\n", counts[constants.FileStatusCreated]+counts[constants.FileStatusReferenceOnly])
	fmt.Printf("- Pending duplicate resolution: %d\n", counts[constants.FileStatusPendingDuplicate])
	fmt.Printf("- Rejected/failed: %d\n", counts[constants.FileStatusRejected]+counts[constants.FileStatusExtractionFailed]+counts[constants.FileStatusError])
	fmt.Printf("- Output: %s\n", *out)
}

// collectFiles lists the supported certificate scans in dir, sorted by name.
func collectFiles(dir string) ([]pipeline.BatchFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []pipeline.BatchFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		out = append(out, pipeline.BatchFile{Filename: e.Name(), Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func shortStatus(s constants.FileStatus) string {
	switch s {
	case constants.FileStatusRejected:
		return "REJ"
	case constants.FileStatusPendingDuplicate:
		return "DUP"
	case constants.FileStatusExtractionFailed:
		return "FAIL"
	case constants.FileStatusError:
		return "ERR"
	default:
		return strings.ToUpper(string(s))
	}
}
