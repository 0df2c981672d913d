package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/intervals"
	"zsports/sports-history/internal/polar"
	"zsports/sports-history/internal/repository"

	log "github.com/sirupsen/logrus"
)

var ErrUnknownSport = errors.New("unknown sport")

// ImportResult summarises a Polar folder import.
type ImportResult struct {
	Counts    polar.FileCounts
	Report    domain.ParseReport
	Inserted  int
	Trainings []domain.Training
	// Exports are the GeoJSON and CSV files written next to the folder.
	Exports []string
}

type TrainingService interface {
	// Import parses a Polar export folder, stores the trainings and writes
	// the GeoJSON/CSV exports into the parent directory of dir.
	Import(ctx context.Context, dir string) (*ImportResult, error)
	List(ctx context.Context, sport string) ([]domain.Training, error)
}

type trainingService struct {
	trainingRepo repository.TrainingRepository
}

func NewTrainingService(trainingRepo repository.TrainingRepository) TrainingService {
	return &trainingService{trainingRepo: trainingRepo}
}

func (s *trainingService) Import(ctx context.Context, dir string) (*ImportResult, error) {
	trainings, report, counts, err := polar.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Counts: counts, Report: report, Trainings: trainings}
	if !report.OK() {
		log.Warnf("polar import: %s", report)
	}

	if s.trainingRepo != nil {
		inserted, err := s.trainingRepo.UpsertMany(ctx, trainings)
		if err != nil {
			return result, fmt.Errorf("store trainings: %w", err)
		}
		result.Inserted = inserted
	}

	out := filepath.Dir(filepath.Clean(dir))
	geo := filepath.Join(out, polar.GeoJSONFileName)
	if err := polar.WriteGeoJSON(trainings, geo); err != nil {
		return result, err
	}
	csvPath := filepath.Join(out, polar.CSVFileName)
	if err := polar.WriteCSV(trainings, csvPath); err != nil {
		return result, err
	}
	result.Exports = []string{geo, csvPath}
	return result, nil
}

func (s *trainingService) List(ctx context.Context, sport string) ([]domain.Training, error) {
	var filter domain.Sport
	if sport != "" {
		parsed, err := domain.ParseSport(sport)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
		}
		filter = parsed
	}
	return s.trainingRepo.List(ctx, filter)
}

// ActivitySource is the part of the intervals client the sync uses.
type ActivitySource interface {
	Refresh(ctx context.Context, kind intervals.Kind) ([]byte, error)
	CachePath(kind intervals.Kind) string
}

// SyncResult describes a refreshed cache file.
type SyncResult struct {
	Kind  intervals.Kind `json:"kind"`
	Path  string         `json:"path"`
	Bytes int            `json:"bytes"`
}

type SyncService interface {
	// Sync drops the cache file of kind and fetches it again.
	Sync(ctx context.Context, kind string) (*SyncResult, error)
}

type syncService struct {
	source ActivitySource
}

func NewSyncService(source ActivitySource) SyncService {
	return &syncService{source: source}
}

func (s *syncService) Sync(ctx context.Context, kind string) (*SyncResult, error) {
	k := intervals.Kind(kind)
	switch k {
	case intervals.KindWorkouts, intervals.KindActivities, intervals.KindActivitiesCSV:
	default:
		return nil, fmt.Errorf("%w: %s", intervals.ErrUnknownKind, kind)
	}
	body, err := s.source.Refresh(ctx, k)
	if err != nil {
		return nil, err
	}
	return &SyncResult{Kind: k, Path: s.source.CachePath(k), Bytes: len(body)}, nil
}
