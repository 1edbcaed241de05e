package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
	"github.com/ontoforge/ontoforge/pkg/config"
	_ "github.com/ontoforge/ontoforge/pkg/converters" // Register rdf and dtdl formats
	"github.com/ontoforge/ontoforge/pkg/fabric"
	"github.com/ontoforge/ontoforge/pkg/formats"
	"github.com/ontoforge/ontoforge/pkg/logging"
	"github.com/ontoforge/ontoforge/pkg/typemap"
	"github.com/ontoforge/ontoforge/pkg/validation"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting ontoforge",
		zap.String("version", cfg.Version),
		zap.String("source", cfg.Source.Path),
		zap.String("output", cfg.Output.Path))

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("conversion failed", zap.Error(err))
	}
}

// run drives the pipeline: resolve the format, validate the source, convert
// it, check the result against the Fabric limits, and write the definition.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reg, err := resolveFormat(cfg.Source)
	if err != nil {
		return err
	}

	types := typemap.Default()
	if path := cfg.Conversion.TypeMappingsPath; path != "" {
		if err := types.LoadMappingsFile(path); err != nil {
			return err
		}
		logger.Info("loaded type mapping overlay", zap.String("path", path))
	}

	format, err := reg.New(cfg.Conversion.FormatOptions(types), logger)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(cfg.Source.Path)
	if err != nil {
		return apperrors.Wrapf(err, "read source %s", cfg.Source.Path)
	}

	report, err := format.Validate(ctx, content)
	if err != nil {
		return err
	}
	logIssues(logger.Named("validation"), report)
	if !report.CanConvert() {
		if !cfg.Conversion.Force {
			return apperrors.Newf("validation found %d errors; set conversion.force to convert anyway",
				report.ErrorCount())
		}
		logger.Warn("continuing despite validation errors", zap.Int("errors", report.ErrorCount()))
	}

	result, err := format.Convert(ctx, content)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn("conversion warning", zap.String("detail", w))
	}
	for _, item := range result.SkippedItems {
		logger.Debug("skipped item",
			zap.String("type", item.ItemType),
			zap.String("name", item.Name),
			zap.String("reason", item.Reason))
	}
	logger.Info("conversion result",
		zap.Int("entity_types", len(result.EntityTypes)),
		zap.Int("relationship_types", len(result.RelationshipTypes)),
		zap.Int("skipped", len(result.SkippedItems)),
		zap.Float64("success_rate", result.SuccessRate()))

	limits := fabric.NewLimitsValidator().Validate(result.EntityTypes, result.RelationshipTypes)
	logIssues(logger.Named("limits"), limits)
	if !limits.CanConvert() && !cfg.Conversion.Force {
		return apperrors.Mark(
			apperrors.Newf("definition violates %d fabric limits", limits.ErrorCount()),
			apperrors.ErrLimitExceeded)
	}

	def, err := fabric.NewSerializer(logger).BuildDefinition(
		result.EntityTypes, result.RelationshipTypes, result.OntologyName)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "marshal definition")
	}
	if err := os.WriteFile(cfg.Output.Path, payload, 0644); err != nil {
		return apperrors.Wrapf(err, "write definition %s", cfg.Output.Path)
	}

	logger.Info("definition written",
		zap.String("path", cfg.Output.Path),
		zap.Int("parts", len(def.Parts)))
	return nil
}

// resolveFormat picks the registered format, preferring an explicit name
// over the file extension.
func resolveFormat(src config.SourceConfig) (formats.Registration, error) {
	if src.Format != "" {
		return formats.Get(src.Format)
	}
	reg, ok := formats.ByExtension(src.Path)
	if !ok {
		return formats.Registration{}, apperrors.Newf(
			"cannot determine the format of %s; set source.format to one of %v",
			src.Path, formats.Available())
	}
	return reg, nil
}

func logIssues(logger *zap.Logger, report *validation.Result) {
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validation.SeverityError:
			logger.Error("validation issue", zap.String("issue", issue.String()))
		case validation.SeverityWarning:
			logger.Warn("validation issue", zap.String("issue", issue.String()))
		default:
			logger.Debug("validation issue", zap.String("issue", issue.String()))
		}
	}
}
