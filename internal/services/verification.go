package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	goredis "github.com/reuniteapp/reunite-backend/internal/clients/redis"
	casesRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/cases"
	patternsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/patterns"
	tipsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/tips"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/platform/apierr"
	"github.com/reuniteapp/reunite-backend/internal/types"
	"github.com/reuniteapp/reunite-backend/internal/verification"
)

// PhotoAnalyzer is the optional third-party vision collaborator. A nil
// analyzer or any analyzer error degrades the photo sub-score to stored
// metadata; it never fails a verification.
type PhotoAnalyzer interface {
	AnalyzePhoto(ctx context.Context, img []byte) (*verification.PhotoSignal, error)
}

const contextLoadTimeout = 5 * time.Second
const photoFetchTimeout = 10 * time.Second

// VerifyOutcome is the triage summary returned alongside the persisted
// record.
type VerifyOutcome struct {
	PriorityBucket types.PriorityBucket `json:"priority_bucket"`
	RequiresReview bool                 `json:"requires_review"`
	ReviewPriority int                  `json:"review_priority"`
	AutoActions    []string             `json:"auto_actions"`
	Warnings       []string             `json:"warnings"`
	Suggestions    []string             `json:"suggestions"`
}

type VerifyResult struct {
	Verification *types.TipVerification `json:"verification"`
	QueueItem    *types.VerificationQueueItem `json:"queue_item,omitempty"`
	Result       VerifyOutcome          `json:"result"`
}

type VerificationService interface {
	Verify(ctx context.Context, tipID uuid.UUID, force bool) (*VerifyResult, error)
	List(ctx context.Context, filter tipsRepo.VerificationListFilter) ([]*types.TipVerification, int64, error)
}

type verificationService struct {
	db            *gorm.DB
	log           *logger.Logger
	tipRepo       tipsRepo.TipRepo
	tipsterRepo   tipsRepo.TipsterProfileRepo
	recordRepo    tipsRepo.VerificationRepo
	queueRepo     tipsRepo.QueueItemRepo
	caseRepo      casesRepo.CaseRepo
	leadRepo      casesRepo.LeadRepo
	patternRepo   patternsRepo.ScamPatternRepo
	ruleRepo      patternsRepo.VerificationRuleRepo
	photoAnalyzer PhotoAnalyzer
	eventBus      goredis.EventBus
	httpClient    *http.Client
}

func NewVerificationService(
	db *gorm.DB,
	log *logger.Logger,
	tipRepo tipsRepo.TipRepo,
	tipsterRepo tipsRepo.TipsterProfileRepo,
	recordRepo tipsRepo.VerificationRepo,
	queueRepo tipsRepo.QueueItemRepo,
	caseRepo casesRepo.CaseRepo,
	leadRepo casesRepo.LeadRepo,
	patternRepo patternsRepo.ScamPatternRepo,
	ruleRepo patternsRepo.VerificationRuleRepo,
	photoAnalyzer PhotoAnalyzer,
	eventBus goredis.EventBus,
) VerificationService {
	serviceLog := log.With("service", "VerificationService")
	return &verificationService{
		db:            db,
		log:           serviceLog,
		tipRepo:       tipRepo,
		tipsterRepo:   tipsterRepo,
		recordRepo:    recordRepo,
		queueRepo:     queueRepo,
		caseRepo:      caseRepo,
		leadRepo:      leadRepo,
		patternRepo:   patternRepo,
		ruleRepo:      ruleRepo,
		photoAnalyzer: photoAnalyzer,
		eventBus:      eventBus,
		httpClient:    &http.Client{Timeout: photoFetchTimeout},
	}
}

func (vs *verificationService) Verify(ctx context.Context, tipID uuid.UUID, force bool) (*VerifyResult, error) {
	if tipID == uuid.Nil {
		return nil, apierr.Validation(fmt.Errorf("tipId is required"))
	}

	tip, err := vs.tipRepo.GetByID(ctx, nil, tipID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching tip %s: %w", tipID, err))
	}
	if tip == nil {
		return nil, apierr.NotFound(fmt.Errorf("tip %s does not exist", tipID))
	}

	existing, err := vs.recordRepo.GetActiveByTipID(ctx, nil, tipID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching existing verification for tip %s: %w", tipID, err))
	}
	if existing != nil && !force {
		return nil, apierr.Conflict(fmt.Errorf("verification already exists for tip %s; set forceReVerification to replace it", tipID))
	}

	vc, err := vs.loadContext(ctx, tip)
	if err != nil {
		return nil, err
	}

	cfg := verification.ConfigFromRules(vc.Rules)
	scorer := verification.NewScorer(cfg)

	// The three evaluators are independent and run in parallel; triage is
	// the join point.
	var (
		scores verification.SubScores
		dup    verification.DuplicateResult
		hoax   verification.HoaxResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		signal := vs.analyzeBestPhoto(gctx, tip)
		scores = scorer.Score(*vc, signal)
		return nil
	})
	g.Go(func() error {
		dup = verification.DetectDuplicates(*vc, cfg)
		return nil
	})
	g.Go(func() error {
		hoax = verification.MatchHoaxPatterns(*vc, cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.From(err)
	}
	if err := ctx.Err(); err != nil {
		// Caller went away; discard partial work, persist nothing.
		return nil, apierr.From(err)
	}

	scores.CrossReference = verification.CrossReferenceScore(dup)
	credibility := verification.AggregateCredibility(scores)
	decision := verification.Triage(vc.Case.PriorityLevel, credibility, dup, hoax, scores.TravelTimeFeasible, cfg, vc.Now)

	record := buildRecord(tip, scores, credibility, dup, hoax, decision)

	var queueItem *types.VerificationQueueItem
	txErr := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing != nil {
			if err := vs.recordRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("replacing verification %s: %w", existing.ID, err)
			}
		}
		if _, err := vs.recordRepo.Create(ctx, tx, record); err != nil {
			return fmt.Errorf("creating verification record: %w", err)
		}
		if decision.RequiresHumanReview {
			queueItem = &types.VerificationQueueItem{
				ID:             uuid.New(),
				TipID:          tip.ID,
				VerificationID: record.ID,
				QueueType:      types.QueueTypeForBucket(decision.Bucket),
				ReviewPriority: decision.ReviewPriority,
				ReviewDeadline: decision.ReviewDeadline,
				Status:         types.QueueStatusPending,
			}
			if _, err := vs.queueRepo.Create(ctx, tx, queueItem); err != nil {
				return fmt.Errorf("creating queue item: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		vs.log.Error("Verification persistence failed", "tip_id", tip.ID, "stage", "persist", "error", txErr)
		return nil, apierr.Persistence(txErr)
	}

	// Observable side effects after commit, best-effort.
	if len(hoax.MatchedPatternIDs) > 0 {
		if err := vs.patternRepo.RecordDetections(ctx, nil, hoax.MatchedPatternIDs, vc.Now); err != nil {
			vs.log.Warn("Failed to record pattern detections", "tip_id", tip.ID, "error", err)
		}
	}
	vs.publishOutcome(ctx, tip, record, queueItem)

	return &VerifyResult{
		Verification: record,
		QueueItem:    queueItem,
		Result: VerifyOutcome{
			PriorityBucket: decision.Bucket,
			RequiresReview: decision.RequiresHumanReview,
			ReviewPriority: decision.ReviewPriority,
			AutoActions:    decision.AutoActions,
			Warnings:       decision.Warnings,
			Suggestions:    decision.Suggestions,
		},
	}, nil
}

func (vs *verificationService) List(ctx context.Context, filter tipsRepo.VerificationListFilter) ([]*types.TipVerification, int64, error) {
	records, total, err := vs.recordRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, 0, apierr.Persistence(err)
	}
	return records, total, nil
}

// loadContext aggregates everything the engine needs. Tip and case are
// required; the remaining sources degrade to empty sets on failure.
func (vs *verificationService) loadContext(ctx context.Context, tip *types.Tip) (*verification.Context, error) {
	loadCtx, cancel := context.WithTimeout(ctx, contextLoadTimeout)
	defer cancel()

	foundCases, err := vs.caseRepo.GetByIDs(loadCtx, nil, []uuid.UUID{tip.CaseID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching case %s: %w", tip.CaseID, err))
	}
	if len(foundCases) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("case %s does not exist", tip.CaseID))
	}

	vc := &verification.Context{
		Tip:     tip,
		Case:    foundCases[0],
		Tipster: tip.TipsterProfile,
		Now:     time.Now().UTC(),
	}

	if priorTips, err := vs.tipRepo.GetByCaseID(loadCtx, nil, tip.CaseID, tip.ID); err != nil {
		vs.log.Warn("Failed to load prior tips, continuing without", "case_id", tip.CaseID, "error", err)
	} else {
		vc.PriorTips = priorTips
	}
	if leads, err := vs.leadRepo.GetActiveByCaseID(loadCtx, nil, tip.CaseID); err != nil {
		vs.log.Warn("Failed to load leads, continuing without", "case_id", tip.CaseID, "error", err)
	} else {
		vc.Leads = leads
	}
	if patterns, err := vs.patternRepo.GetActive(loadCtx, nil); err != nil {
		vs.log.Warn("Failed to load scam patterns, continuing without", "error", err)
	} else {
		vc.Patterns = patterns
	}
	if rules, err := vs.ruleRepo.GetActive(loadCtx, nil); err != nil {
		vs.log.Warn("Failed to load verification rules, using defaults", "error", err)
	} else {
		vc.Rules = rules
	}

	return vc, nil
}

// analyzeBestPhoto runs the optional vision collaborator over the first
// attachment. Failures are upstream degradation: logged, never surfaced.
func (vs *verificationService) analyzeBestPhoto(ctx context.Context, tip *types.Tip) *verification.PhotoSignal {
	if vs.photoAnalyzer == nil || len(tip.Attachments) == 0 {
		return nil
	}
	url := tip.Attachments[0].StorageURL
	if url == "" {
		return nil
	}

	img, err := vs.fetchImage(ctx, url)
	if err != nil {
		vs.log.Warn("Photo fetch failed, scoring on stored metadata", "tip_id", tip.ID, "error", err)
		return nil
	}
	signal, err := vs.photoAnalyzer.AnalyzePhoto(ctx, img)
	if err != nil {
		vs.log.Warn("Photo analysis degraded, scoring on stored metadata", "tip_id", tip.ID, "error", err)
		return nil
	}
	return signal
}

func (vs *verificationService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := vs.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

func (vs *verificationService) publishOutcome(ctx context.Context, tip *types.Tip, record *types.TipVerification, queueItem *types.VerificationQueueItem) {
	if vs.eventBus == nil {
		return
	}
	event := goredis.Event{
		Type:           "tip_verified",
		TipID:          tip.ID.String(),
		CaseID:         tip.CaseID.String(),
		VerificationID: record.ID.String(),
		PriorityBucket: string(record.PriorityBucket),
	}
	if queueItem != nil {
		event.Type = "queue_item_created"
		event.QueueItemID = queueItem.ID.String()
		event.QueueType = string(queueItem.QueueType)
	}
	if err := vs.eventBus.Publish(ctx, event); err != nil {
		vs.log.Warn("Failed to publish verification event", "tip_id", tip.ID, "error", err)
	}
}

func buildRecord(tip *types.Tip, scores verification.SubScores, credibility int, dup verification.DuplicateResult, hoax verification.HoaxResult, decision verification.Decision) *types.TipVerification {
	return &types.TipVerification{
		ID:     uuid.New(),
		TipID:  tip.ID,
		CaseID: tip.CaseID,

		PhotoVerificationScore:    scores.Photo,
		LocationVerificationScore: scores.Location,
		TimePlausibilityScore:     scores.Time,
		TextAnalysisScore:         scores.Text,
		CrossReferenceScore:       scores.CrossReference,
		TipsterReliabilityScore:   scores.Tipster,
		CredibilityScore:          credibility,

		TravelTimeFeasible:        scores.TravelTimeFeasible,
		IsDuplicate:               dup.IsDuplicate,
		DuplicateTipIDs:           uuidsJSON(dup.DuplicateTipIDs),
		SimilarityScores:          mapJSON(dup.SimilarityScores),
		MatchesExistingLeads:      dup.MatchesExistingLeads,
		MatchingLeadIDs:           uuidsJSON(dup.MatchingLeadIDs),
		MatchesKnownLocations:     dup.MatchesKnownLocations,
		MatchesSuspectDescription: dup.MatchesSuspectDescription,

		HoaxIndicators:     stringsJSON(hoax.Indicators),
		SpamScore:          hoax.SpamScore,
		HoaxDetectionNotes: hoax.Notes,

		PriorityBucket:      decision.Bucket,
		RequiresHumanReview: decision.RequiresHumanReview,
		AutoTriaged:         decision.AutoTriaged,
		AutoTriageReason:    decision.AutoTriageReason,
	}
}

func uuidsJSON(ids []uuid.UUID) datatypes.JSON {
	if len(ids) == 0 {
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func stringsJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func mapJSON(values map[string]float64) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
