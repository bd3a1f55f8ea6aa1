package analysisService

import (
	"TrattoriaGolang/internal/api/analysis"
	analysisRepository "TrattoriaGolang/internal/api/analysis/repository"
	"TrattoriaGolang/internal/entity"
	"TrattoriaGolang/pkg/memocache"
	"TrattoriaGolang/pkg/menu"
	"TrattoriaGolang/pkg/redis"
	"TrattoriaGolang/pkg/utils"
	websocketPkg "TrattoriaGolang/pkg/websocket"
	"TrattoriaGolang/pkg/whatsapp"
	"context"

	"github.com/sirupsen/logrus"
)

// TranscriptExtractor is the one blocking collaborator: a single completion
// call that turns a flattened transcript into a raw JSON payload.
type TranscriptExtractor interface {
	ExtractIntent(ctx context.Context, transcript string, conversationDate string) (string, error)
}

type IAnalysisService interface {
	Analyze(ctx context.Context, req analysis.AnalyzeRequest) (entity.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, conversationID string) (entity.AnalysisRecord, error)
	GetAnalysisStatus(ctx context.Context, conversationID string) (analysis.StatusResponse, error)
	ProductSummaries(ctx context.Context) ([]analysis.ProductSummary, error)
	ReservationsByDay(ctx context.Context) ([]analysis.ReservationDay, error)
}

type analysisService struct {
	log         *logrus.Logger
	repo        analysisRepository.Repository
	extractor   TranscriptExtractor
	catalog     *menu.Catalog
	cache       *memocache.Cache
	statusStore redis.IRedis
	eventHub    websocketPkg.IEventHub
	notifier    whatsapp.INotifier
	utils       utils.IUtils
	sampleIDs   []string
	samples     map[string]sampleConversation
}

func NewAnalysisService(
	log *logrus.Logger,
	repo analysisRepository.Repository,
	extractor TranscriptExtractor,
	catalog *menu.Catalog,
	cache *memocache.Cache,
	statusStore redis.IRedis,
	eventHub websocketPkg.IEventHub,
	notifier whatsapp.INotifier,
	utils utils.IUtils,
) IAnalysisService {
	sampleIDs, samples := defaultSamples()

	return &analysisService{
		log:         log,
		repo:        repo,
		extractor:   extractor,
		catalog:     catalog,
		cache:       cache,
		statusStore: statusStore,
		eventHub:    eventHub,
		notifier:    notifier,
		utils:       utils,
		sampleIDs:   sampleIDs,
		samples:     samples,
	}
}
