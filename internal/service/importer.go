package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/extract"
	"github.com/eastgenomics/inca-import/internal/finalize"
	"github.com/eastgenomics/inca-import/internal/mapping"
	"github.com/eastgenomics/inca-import/internal/query"
	"github.com/eastgenomics/inca-import/internal/report"
)

// ImportService runs the normalization pipeline over report batches:
// classify each document, extract its findings into records, enrich them
// with resolved panel data and finalize the batch.
type ImportService struct {
	logger    *logrus.Logger
	queries   *query.Evaluator
	extractor *extract.Extractor
	finalizer *finalize.Finalizer
}

// NewImportService wires the pipeline. The mapping tables are validated
// here so a broken configuration fails before any report is touched.
// index may be nil when no panel-assignment data was supplied.
func NewImportService(logger *logrus.Logger, tables mapping.Set, index domain.PanelResolver) (*ImportService, error) {
	queries, err := query.NewEvaluator(0)
	if err != nil {
		return nil, err
	}
	if err := tables.Validate(queries); err != nil {
		return nil, fmt.Errorf("invalid mapping configuration: %w", err)
	}
	return &ImportService{
		logger:    logger,
		queries:   queries,
		extractor: extract.New(queries, tables, index),
		finalizer: finalize.New(),
	}, nil
}

// ImportResult summarizes one batch run.
type ImportResult struct {
	Records               []domain.Record
	Processed             int
	Skipped               int
	MalformedDates        int
	UnsupportedStrategies int
	ProcessingTime        time.Duration
}

// Run processes the batch to completion. Unrecognized documents are
// counted and skipped, never fatal. The returned records are finalized:
// identifiers assigned, provenance stamped, key set rectangular.
func (s *ImportService) Run(reports []domain.Report) *ImportResult {
	start := time.Now()
	result := &ImportResult{}
	total := len(reports)

	for i, rep := range reports {
		variant := report.Classify(rep.Document)
		if variant == domain.SchemaUnrecognized {
			s.logger.WithField("report", rep.Name).
				WithError(domain.ErrUnrecognizedSchema).
				Warn("Skipping report")
			result.Skipped++
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"report":  rep.Name,
			"variant": variant,
		}).Debug("Report classified")

		for _, f := range report.Findings(rep, variant, s.queries) {
			rec, diags := s.extractor.MapFields(f, variant)
			for _, d := range diags {
				switch {
				case errors.Is(d.Err, domain.ErrMalformedDate):
					result.MalformedDates++
				case errors.Is(d.Err, domain.ErrUnsupportedStrategy):
					result.UnsupportedStrategies++
				}
				s.logger.WithFields(logrus.Fields{
					"report": rep.Name,
					"field":  d.Field,
				}).WithError(d.Err).Debug("Field diagnostic")
			}
			s.extractor.Enrich(rec, rep.Name)
			result.Records = append(result.Records, rec)
		}
		result.Processed++
		s.logger.Infof("%d/%d reports processed", i+1, total)
	}

	s.finalizer.Finalize(result.Records)
	result.ProcessingTime = time.Since(start)

	s.logger.WithFields(logrus.Fields{
		"processed": result.Processed,
		"skipped":   result.Skipped,
		"records":   len(result.Records),
		"duration":  result.ProcessingTime,
	}).Info("Import batch complete")
	return result
}

// LoadReports reads and deserializes each report file. The path doubles
// as the report's external name, which carries the sample number and the
// stem used in evaluation identifiers.
func LoadReports(paths []string) ([]domain.Report, error) {
	reports := make([]domain.Report, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading report %s: %w", path, err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing report %s: %w", path, err)
		}
		reports = append(reports, domain.Report{Name: path, Document: doc})
	}
	return reports, nil
}
