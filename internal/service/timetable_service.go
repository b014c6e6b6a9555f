package service

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/logger"
	"github.com/noah-isme/timetable-api/pkg/workbook"
)

type uploadOpener interface {
	Open(name string) (*os.File, error)
}

type uploadCleaner interface {
	Schedule(name string)
}

type timetableExporter interface {
	Export(timetable *models.Timetable, format dto.TimetableFormat) (*dto.TimetableFile, error)
}

type timetableMetrics interface {
	ObserveTimetable(format dto.TimetableFormat, info dto.WorkbookInfo, subjects []models.SubjectSummary, stats models.BuildStats, duration time.Duration)
	ObserveTimetableFailure(code string)
}

// RoomSourceFactory returns the random source used for one Build call.
type RoomSourceFactory func(seed *int64) RoomNumberSource

// TimetableServiceConfig governs workbook parsing.
type TimetableServiceConfig struct {
	HeaderOffset int
}

// TimetableService turns uploaded workload sheets into timetables.
type TimetableService struct {
	uploads   uploadOpener
	cleanup   uploadCleaner
	exporter  timetableExporter
	metrics   timetableMetrics
	rooms     RoomSourceFactory
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
}

// NewTimetableService wires the generation pipeline. Uploads and cleanup may be
// nil when the service only serves GenerateFromReader.
func NewTimetableService(
	uploads uploadOpener,
	cleanup uploadCleaner,
	exporter timetableExporter,
	metrics timetableMetrics,
	rooms RoomSourceFactory,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if exporter == nil {
		exporter = NewTimetableExporter(nil, nil)
	}
	if rooms == nil {
		rooms = DefaultRoomSource
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HeaderOffset < 0 {
		cfg.HeaderOffset = 0
	}
	return &TimetableService{
		uploads:   uploads,
		cleanup:   cleanup,
		exporter:  exporter,
		metrics:   metrics,
		rooms:     rooms,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// DefaultRoomSource returns a generator seeded from seed, or from the clock when seed is nil.
func DefaultRoomSource(seed *int64) RoomNumberSource {
	value := time.Now().UnixNano()
	if seed != nil {
		value = *seed
	}
	return rand.New(rand.NewSource(value))
}

// Generate builds a timetable from a stored upload. The upload is scheduled
// for deletion whatever the outcome.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResult, error) {
	if req.UploadName == "" {
		return nil, s.fail(appErrors.ErrNoFile)
	}
	if s.cleanup != nil {
		defer s.cleanup.Schedule(req.UploadName)
	}
	if err := s.validate(req); err != nil {
		return nil, s.fail(err)
	}
	sourceFormat, err := sourceFormatOf(req.Filename)
	if err != nil {
		return nil, s.fail(err)
	}
	if s.uploads == nil {
		return nil, s.fail(appErrors.Clone(appErrors.ErrInternal, "upload storage not configured"))
	}

	file, err := s.uploads.Open(req.UploadName)
	if err != nil {
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "open uploaded workload"))
	}
	defer file.Close() //nolint:errcheck

	logger.WithContext(ctx, s.logger).Info("workload upload received",
		zap.String("upload", req.UploadName),
		zap.String("path", file.Name()),
	)
	return s.generate(ctx, file, sourceFormat, req)
}

// GenerateFromReader runs the pipeline on a workload stream without touching upload storage.
func (s *TimetableService) GenerateFromReader(ctx context.Context, r io.Reader, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResult, error) {
	if err := s.validate(req); err != nil {
		return nil, s.fail(err)
	}
	sourceFormat, err := sourceFormatOf(req.Filename)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.generate(ctx, r, sourceFormat, req)
}

func sourceFormatOf(filename string) (workbook.Format, error) {
	format, err := workbook.FormatFromFilename(filename)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, appErrors.ErrUnsupportedFormat.Message)
	}
	return format, nil
}

func (s *TimetableService) validate(req dto.GenerateTimetableRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable request")
	}
	return nil
}

func (s *TimetableService) generate(ctx context.Context, r io.Reader, sourceFormat workbook.Format, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResult, error) {
	start := time.Now()
	log := logger.WithContext(ctx, s.logger)

	format := req.Format
	if format == "" {
		format = dto.TimetableFormatJSON
	}
	sheet, err := workbook.Read(r, sourceFormat, s.cfg.HeaderOffset)
	if err != nil {
		if errors.Is(err, workbook.ErrUnsupportedFormat) {
			return nil, s.fail(appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, appErrors.ErrUnsupportedFormat.Message))
		}
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrUnreadableFile.Code, appErrors.ErrUnreadableFile.Status, appErrors.ErrUnreadableFile.Message))
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation cancelled"))
	}
	log.Info("workbook parsed",
		zap.String("file", req.Filename),
		zap.String("sheet", sheet.Name),
		zap.Strings("sheets", sheet.SheetNames),
		zap.Int("rows", len(sheet.Rows)),
	)

	rows := make([]models.WorkloadRow, len(sheet.Rows))
	for i, row := range sheet.Rows {
		rows[i] = models.WorkloadRow(row)
	}
	subjects := NormalizeWorkload(rows)
	info := dto.WorkbookInfo{
		Sheet:      sheet.Name,
		SheetNames: sheet.SheetNames,
		Rows:       len(rows),
		Subjects:   len(subjects),
		Dropped:    len(rows) - len(subjects),
	}
	log.Info("workload normalized", zap.Int("subjects", info.Subjects), zap.Int("dropped", info.Dropped))

	timetable, stats := NewTimetableBuilder(s.rooms(req.Seed)).Build(subjects)

	result := &dto.GenerateTimetableResult{
		ID:        uuid.NewString(),
		Format:    format,
		Timetable: timetable,
		Stats:     stats,
		Workbook:  info,
	}
	if format != dto.TimetableFormatJSON {
		file, err := s.exporter.Export(timetable, format)
		if err != nil {
			return nil, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render timetable export"))
		}
		result.File = file
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveTimetable(format, info, timetable.Subjects, stats, duration)
	}
	fields := []zap.Field{
		zap.String("timetable_id", result.ID),
		zap.String("format", string(format)),
		zap.Int("required_hours", stats.RequiredHours),
		zap.Int("assigned_hours", stats.AssignedHours),
		zap.Int("under_scheduled", len(stats.UnderScheduled)),
		zap.Duration("duration", duration),
	}
	if len(stats.UnderScheduled) > 0 {
		log.Warn("timetable generated with shortfall", fields...)
	} else {
		log.Info("timetable generated", fields...)
	}
	return result, nil
}

func (s *TimetableService) fail(err error) error {
	if s.metrics != nil {
		s.metrics.ObserveTimetableFailure(appErrors.FromError(err).Code)
	}
	return err
}
