package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandkit/api/internal/color"
	"github.com/brandkit/api/internal/fonts"
	"github.com/brandkit/api/internal/metrics"
	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/store"
)

// EligibilityGate decides whether a user may start a generation
type EligibilityGate interface {
	Check(ctx context.Context, userID string) (bool, error)
}

// Observer is notified on every pipeline state transition
type Observer func(state model.PipelineState)

// Timeouts bound each external call. Zero means no limit beyond ctx.
type Timeouts struct {
	Strategy time.Duration
	Image    time.Duration
	Upload   time.Duration
	Persist  time.Duration
}

// GenerationDeps are the collaborators of a GenerationService
type GenerationDeps struct {
	Fonts      *fonts.Catalog
	Strategy   *StrategyService
	Colors     *color.Engine
	Images     *ImageService
	Assets     *AssetService
	Identities store.IdentityStore
	Gate       EligibilityGate
	Metrics    *metrics.Pipeline
	Logger     *zap.Logger
	Timeouts   Timeouts
}

// GenerationService runs the brand generation pipeline. It holds no
// mutable state and is safe for concurrent use.
type GenerationService struct {
	fonts      *fonts.Catalog
	strategy   *StrategyService
	colors     *color.Engine
	images     *ImageService
	assets     *AssetService
	identities store.IdentityStore
	gate       EligibilityGate
	metrics    *metrics.Pipeline
	logger     *zap.Logger
	timeouts   Timeouts
}

// NewGenerationService creates a new generation service
func NewGenerationService(d GenerationDeps) *GenerationService {
	gate := d.Gate
	if gate == nil {
		gate = store.AllowAllGate{}
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	colors := d.Colors
	if colors == nil {
		colors = color.NewEngine()
	}

	return &GenerationService{
		fonts:      d.Fonts,
		strategy:   d.Strategy,
		colors:     colors,
		images:     d.Images,
		assets:     d.Assets,
		identities: d.Identities,
		gate:       gate,
		metrics:    d.Metrics,
		logger:     logger,
		timeouts:   d.Timeouts,
	}
}

// Generate turns a prompt and vibe into a persisted brand identity. Any
// returned error is a *model.GenerationError. No stage is retried and
// nothing already uploaded or written is undone.
func (s *GenerationService) Generate(ctx context.Context, userID string, req *model.GenerateRequest, observer Observer) (*model.BrandIdentity, error) {
	run := &pipelineRun{
		svc:      s,
		userID:   userID,
		observer: observer,
		started:  time.Now(),
		log:      s.logger.With(zap.String("user_id", userID)),
	}
	return run.execute(ctx, req)
}

// pipelineRun carries the state of a single generation
type pipelineRun struct {
	svc      *GenerationService
	userID   string
	observer Observer
	started  time.Time
	log      *zap.Logger
}

func (r *pipelineRun) execute(ctx context.Context, req *model.GenerateRequest) (*model.BrandIdentity, error) {
	s := r.svc

	r.enter(model.StateValidating)
	if r.userID == "" {
		return nil, r.fail(model.NewGenerationError(model.StageValidate, model.KindUnauthorized, errors.New("missing caller identity")))
	}
	prompt := strings.TrimSpace(req.Prompt)
	vibe := strings.TrimSpace(req.Vibe)
	if prompt == "" || vibe == "" {
		gerr := model.NewGenerationError(model.StageValidate, model.KindInvalidInput, errors.New("prompt and vibe are required"))
		gerr.Field = "prompt"
		if prompt != "" {
			gerr.Field = "vibe"
		}
		return nil, r.fail(gerr)
	}

	r.enter(model.StateCheckingEligibility)
	allowed, err := s.gate.Check(ctx, r.userID)
	if err != nil {
		return nil, r.fail(model.NewGenerationError(model.StageEligibility, model.KindEligibilityCheckFailed, err))
	}
	if !allowed {
		return nil, r.fail(model.NewGenerationError(model.StageEligibility, model.KindNotEligible, errors.New("no generation credits left")))
	}

	r.enter(model.StateFilteringFonts)
	allowedFonts, err := s.fonts.ForVibe(vibe)
	if err != nil {
		gerr := model.NewGenerationError(model.StageFonts, model.KindInvalidInput, err)
		gerr.Field = "vibe"
		return nil, r.fail(gerr)
	}

	r.enter(model.StateRunningStrategy)
	strategyCtx, cancel := withTimeout(ctx, s.timeouts.Strategy)
	strategy, err := s.strategy.Generate(strategyCtx, prompt, vibe, allowedFonts)
	cancel()
	if err != nil {
		return nil, r.fail(asStageError(err, model.StageStrategy, model.KindStrategyUnavailable))
	}
	r.log.Debug("strategy ready", zap.String("brand_name", strategy.BrandName), zap.String("font", strategy.FontName))

	r.enter(model.StateResolvingColors)
	colors := s.colors.Resolve(strategy.BaseColor, strategy.HarmonyType)
	r.recordColorFallbacks(strategy, colors)

	r.enter(model.StateRenderingImage)
	imageCtx, cancel := withTimeout(ctx, s.timeouts.Image)
	img, err := s.images.Render(imageCtx, strategy.LogoPrompt)
	cancel()
	if err != nil {
		return nil, r.fail(asStageError(err, model.StageImage, model.KindImageRenderFailed))
	}

	r.enter(model.StateUploadingAsset)
	uploadCtx, cancel := withTimeout(ctx, s.timeouts.Upload)
	logoURL, key, err := s.assets.StoreLogo(uploadCtx, r.userID, img)
	cancel()
	if err != nil {
		return nil, r.fail(asStageError(err, model.StageStorage, model.KindStorageUploadFailed))
	}

	r.enter(model.StatePersisting)
	persistCtx, cancel := withTimeout(ctx, s.timeouts.Persist)
	identity, err := s.identities.Create(persistCtx, &model.BrandIdentity{
		UserID:    r.userID,
		BrandName: strategy.BrandName,
		Colors: model.BrandColors{
			Base:    colors.Base,
			Harmony: colors.Harmony,
			Palette: colors.Palette,
		},
		Fonts: model.BrandFonts{
			Selected: strategy.FontName,
			Category: vibe,
		},
		LogoURL:   logoURL,
		Prompt:    prompt,
		Rationale: strategy.Rationale,
	})
	cancel()
	if err != nil {
		r.log.Warn("logo uploaded but identity not saved", zap.String("object_key", key))
		return nil, r.fail(model.NewGenerationError(model.StagePersist, model.KindPersistenceFailed, err))
	}

	r.enter(model.StateDone)
	elapsed := time.Since(r.started)
	if s.metrics != nil {
		s.metrics.ObserveSuccess(elapsed.Seconds())
	}
	r.log.Info("brand generated",
		zap.String("brand_id", identity.ID),
		zap.String("brand_name", identity.BrandName),
		zap.Duration("elapsed", elapsed),
	)
	return identity, nil
}

func (r *pipelineRun) enter(state model.PipelineState) {
	r.log.Debug("pipeline transition", zap.String("state", string(state)))
	if r.observer != nil {
		r.observer(state)
	}
}

func (r *pipelineRun) fail(gerr *model.GenerationError) error {
	elapsed := time.Since(r.started)
	r.log.Warn("generation failed",
		zap.String("stage", string(gerr.Stage)),
		zap.String("kind", string(gerr.Kind)),
		zap.String("field", gerr.Field),
		zap.Duration("elapsed", elapsed),
		zap.Error(gerr.Err),
	)
	if r.svc.metrics != nil {
		r.svc.metrics.ObserveFailure(string(gerr.Stage), string(gerr.Kind), elapsed.Seconds())
	}
	r.enter(model.StateFailed)
	return gerr
}

func (r *pipelineRun) recordColorFallbacks(strategy *model.BrandStrategy, res color.Resolution) {
	layers := []struct {
		used  bool
		layer string
	}{
		{res.BaseFallback, metrics.LayerBase},
		{res.HarmonyFallback, metrics.LayerHarmony},
		{res.ManualHarmony, metrics.LayerManual},
		{res.PaletteFallback, metrics.LayerPalette},
	}
	for _, l := range layers {
		if !l.used {
			continue
		}
		r.log.Info("color fallback used",
			zap.String("layer", l.layer),
			zap.String("base_candidate", strategy.BaseColor),
			zap.String("harmony_candidate", strategy.HarmonyType),
		)
		if r.svc.metrics != nil {
			r.svc.metrics.IncPaletteFallback(l.layer)
		}
	}
}

// asStageError keeps a typed error from a stage or wraps a foreign one
func asStageError(err error, stage model.Stage, kind model.ErrorKind) *model.GenerationError {
	var gerr *model.GenerationError
	if errors.As(err, &gerr) {
		return gerr
	}
	return model.NewGenerationError(stage, kind, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
