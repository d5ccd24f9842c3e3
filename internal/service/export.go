package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/storage"
)

var ErrExportUnavailable = errors.New("export storage is not configured")

// RoadmapExport is the document written for a download.
type RoadmapExport struct {
	Career     *model.CareerTrack  `json:"career"`
	Option     *model.CareerOption `json:"option,omitempty"`
	Phases     model.Phases        `json:"phases"`
	Percent    int                 `json:"percent"`
	ExportedAt time.Time           `json:"exportedAt"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ExportService struct {
	roadmapService      *RoadmapService
	careerService       *CareerService
	subscriptionService *SubscriptionService
	storage             storage.Storage
	clock               Clock
}

func NewExportService(
	roadmapService *RoadmapService,
	careerService *CareerService,
	subscriptionService *SubscriptionService,
	storage storage.Storage,
	clock Clock,
) *ExportService {
	return &ExportService{
		roadmapService:      roadmapService,
		careerService:       careerService,
		subscriptionService: subscriptionService,
		storage:             storage,
		clock:               clock,
	}
}

// Export uploads the roadmap of a career as JSON and returns a temporary
// download link. Paid plans only.
func (s *ExportService) Export(ctx context.Context, userID, careerID string) (*ExportResult, error) {
	err := s.subscriptionService.RequireFeature(userID, model.FeatureExport)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}

	overview, err := s.roadmapService.Overview(userID, careerID)
	if err != nil {
		return nil, err
	}

	doc := RoadmapExport{
		Career:     overview.Career,
		Phases:     overview.Roadmap.Phases,
		Percent:    overview.Percent,
		ExportedAt: s.clock.now().UTC(),
	}

	option, err := s.careerService.Snapshot(userID, careerID)
	if err == nil {
		doc.Option = option
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s-%d.json", userID, careerID, doc.ExportedAt.Unix())

	err = s.storage.Save(ctx, key, "application/json", data)
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	slog.Info("roadmap exported", "user_id", userID, "career_id", careerID, "key", key)
	return &ExportResult{Key: key, URL: url}, nil
}
