package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/company-profiler/internal/entity"
	"github.com/octobees/company-profiler/internal/extract"
	"github.com/octobees/company-profiler/internal/fetcher"
	"github.com/octobees/company-profiler/internal/service/reconcile"
)

var (
	// ErrWebsiteRequired is returned before any network call when no website was supplied.
	ErrWebsiteRequired = errors.New("website is required")
	// ErrScrapeFailed covers every fault after validation. The cause is logged, not returned.
	ErrScrapeFailed = errors.New("unable to scrape company website")
)

// Stage names a step of the scrape pipeline.
type Stage string

const (
	StageValidating     Stage = "validating"
	StageFetchingHome   Stage = "fetching_home"
	StageExtractingHome Stage = "extracting_home"
	StageFetchingDeep   Stage = "fetching_deep"
	StageExtractingDeep Stage = "extracting_deep"
	StageMerging        Stage = "merging"
	StageClassifying    Stage = "classifying"
	StagePersisting     Stage = "persisting"
	StageResponding     Stage = "responding"
	StageFailed         Stage = "failed"
)

// PageFetcher retrieves the homepage and the fixed deep pages of a site.
type PageFetcher interface {
	FetchHome(ctx context.Context, url string) (fetcher.SourcePage, error)
	FetchDeepPageResults(ctx context.Context, baseURL string) []fetcher.PageResult
}

// ProfileWriter persists a profile keyed by website.
type ProfileWriter interface {
	Upsert(ctx context.Context, profile *entity.CompanyProfile) (*entity.CompanyProfile, error)
}

// ScrapeResult is the outcome of one successful pipeline run.
type ScrapeResult struct {
	Profile  *entity.CompanyProfile
	Status   entity.ScrapeStatus
	Duration time.Duration
}

// ScrapeService runs the fetch, extract, merge, classify and persist pipeline
// for one website per call.
type ScrapeService struct {
	fetcher PageFetcher
	store   ProfileWriter
	now     func() time.Time
}

// NewScrapeService wires the pipeline collaborators.
func NewScrapeService(f PageFetcher, store ProfileWriter) *ScrapeService {
	return &ScrapeService{fetcher: f, store: store, now: time.Now}
}

// Scrape builds and stores the profile for website. It returns
// ErrWebsiteRequired for blank input and an error wrapping ErrScrapeFailed
// for anything that goes wrong afterwards, including panics.
func (s *ScrapeService) Scrape(ctx context.Context, website string) (result *ScrapeResult, err error) {
	started := s.now()
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, ErrWebsiteRequired
	}

	run := &pipelineRun{website: website, stage: StageValidating}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = run.fail(eris.Errorf("panic: %v", r))
		}
	}()

	run.enter(StageFetchingHome)
	home, err := s.fetcher.FetchHome(ctx, website)
	if err != nil {
		return nil, run.fail(err)
	}

	run.enter(StageExtractingHome)
	homeFields, err := extract.Extract(home)
	if err != nil {
		return nil, run.fail(err)
	}

	run.enter(StageFetchingDeep)
	deepResults := s.fetcher.FetchDeepPageResults(ctx, website)

	run.enter(StageExtractingDeep)
	deepFields := make([]extract.FieldExtraction, 0, len(deepResults))
	for _, res := range deepResults {
		if !res.OK() {
			continue
		}
		fields, err := extract.Extract(*res.Page)
		if err != nil {
			return nil, run.fail(err)
		}
		deepFields = append(deepFields, fields)
	}

	run.enter(StageMerging)
	profile := reconcile.Merge(homeFields, deepFields)
	profile.Website = website

	run.enter(StageClassifying)
	profile.ScrapeStatus = reconcile.Classify(profile)
	profile.LastScrapedAt = s.now().UTC()

	run.enter(StagePersisting)
	stored, err := s.store.Upsert(ctx, &profile)
	if err != nil {
		return nil, run.fail(err)
	}

	run.enter(StageResponding)
	duration := s.now().Sub(started)
	zap.L().Info("scrape completed",
		zap.String("website", website),
		zap.String("status", string(stored.ScrapeStatus)),
		zap.Int("deep_pages", len(deepFields)),
		zap.Duration("duration", duration),
	)

	return &ScrapeResult{
		Profile:  stored,
		Status:   stored.ScrapeStatus,
		Duration: duration,
	}, nil
}

type pipelineRun struct {
	website string
	stage   Stage
}

func (r *pipelineRun) enter(stage Stage) {
	r.stage = stage
}

// fail logs the cause against the stage it happened in and collapses it
// into ErrScrapeFailed.
func (r *pipelineRun) fail(cause error) error {
	failedAt := r.stage
	r.stage = StageFailed
	zap.L().Error("scrape failed",
		zap.String("website", r.website),
		zap.String("stage", string(failedAt)),
		zap.Error(cause),
	)
	return fmt.Errorf("%w (stage %s)", ErrScrapeFailed, failedAt)
}
