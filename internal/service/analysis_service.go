package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/util"
	"path_advisor_backend/pkg/logger"
	"path_advisor_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnalysisService 编排一次完整的路径分析：
// 画像加载 → 权重解析 → 全量评分 → 前 N 条路径并发推演 →
// 任务拆解（外部协作方，可降级）→ 周计划排期 → 报告落库与缓存

type AnalysisService struct {
	ProfileRepo *repository.ProfileRepository
	PathRepo    *repository.PathRepository
	PresetRepo  *repository.PresetRepository
	ReportRepo  *repository.ReportRepository
	TaskGen     TaskGenerator
	Redis       *redis.Client
	Cfg         *config.Config
	EngineCfg   engine.Config
}

func NewAnalysisService(
	profileRepo *repository.ProfileRepository,
	pathRepo *repository.PathRepository,
	presetRepo *repository.PresetRepository,
	reportRepo *repository.ReportRepository,
	taskGen TaskGenerator,
	rdb *redis.Client,
	cfg *config.Config,
) *AnalysisService {
	return &AnalysisService{
		ProfileRepo: profileRepo,
		PathRepo:    pathRepo,
		PresetRepo:  presetRepo,
		ReportRepo:  reportRepo,
		TaskGen:     taskGen,
		Redis:       rdb,
		Cfg:         cfg,
		EngineCfg:   engine.DefaultConfig(),
	}
}

// AnalysisRequest 一次分析的输入参数
type AnalysisRequest struct {
	ProfileID        uint                   `json:"profileId" binding:"required"`
	Weights          *engine.ScoringWeights `json:"weights,omitempty"`
	PresetName       string                 `json:"presetName,omitempty"`
	WeeklyHourBudget float64                `json:"weeklyHourBudget,omitempty"`
	TopN             int                    `json:"topN,omitempty"`
	Force            bool                   `json:"force,omitempty"` // 跳过缓存强制重算
}

// AnalysisResult 分析的完整产出
type AnalysisResult struct {
	ReportID       uint                      `json:"reportId,omitempty"`
	ProfileID      uint                      `json:"profileId"`
	ProfileVersion int                       `json:"profileVersion"`
	Weights        engine.ScoringWeights     `json:"weights"`
	Rankings       []engine.ScoreBreakdown   `json:"rankings"`
	Simulations    []engine.SimulationResult `json:"simulations"`
	Roadmap        *engine.Roadmap           `json:"roadmap,omitempty"`
	Degraded       bool                      `json:"degraded"`
	GeneratedAt    time.Time                 `json:"generatedAt"`
	Cached         bool                      `json:"cached,omitempty"`
}

// Analyze 执行完整分析流程。协作方失败不会中断分析，
// 评分与推演照常返回，周计划省略并以 Degraded 标记
func (s *AnalysisService) Analyze(ctx context.Context, ownerID uint, req AnalysisRequest) (*AnalysisResult, error) {
	start := time.Now()

	profileRow, err := s.ProfileRepo.FindByIDAndOwner(req.ProfileID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	profile, err := profileRow.ToEngine()
	if err != nil {
		return nil, err
	}

	weights, err := s.resolveWeights(req)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(profileRow, weights, req)
	if !req.Force {
		if cached := s.loadCached(ctx, cacheKey); cached != nil {
			monitoring.AnalysisCounter.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
	}

	pathRows, err := s.PathRepo.FindEnabledByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(pathRows) == 0 {
		return nil, util.ErrNoPaths
	}
	paths := make([]engine.Path, 0, len(pathRows))
	for _, row := range pathRows {
		view, err := row.ToEngine()
		if err != nil {
			return nil, err
		}
		paths = append(paths, view)
	}

	rankings, err := engine.ScoreAllPaths(profile, paths, weights)
	if err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.Cfg.Analysis.TopN
	}
	if topN > len(rankings) {
		topN = len(rankings)
	}

	simulations, err := s.simulateTop(profile, paths, rankings[:topN])
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		ProfileID:      profileRow.ID,
		ProfileVersion: profileRow.CurrentVersion,
		Weights:        weights,
		Rankings:       rankings,
		Simulations:    simulations,
		GeneratedAt:    time.Now(),
	}

	// 为得分最高的路径生成周计划
	if len(simulations) > 0 {
		topPath := findPath(paths, rankings[0].PathID)
		roadmap, degraded := s.buildRoadmap(ctx, profile, topPath, simulations[0], req.WeeklyHourBudget)
		result.Roadmap = roadmap
		result.Degraded = degraded
	}

	report, err := s.persist(ownerID, profileRow, weights, result, time.Since(start))
	if err != nil {
		logger.Log.Error("持久化分析报告失败", zap.Error(err))
	} else {
		result.ReportID = report.ID
	}

	s.storeCached(ctx, cacheKey, result)

	status := "ok"
	if result.Degraded {
		status = "degraded"
	}
	monitoring.AnalysisCounter.WithLabelValues(status).Inc()
	monitoring.AnalysisDuration.Observe(time.Since(start).Seconds())

	logger.Log.Info("分析完成",
		zap.Uint("profileId", profileRow.ID),
		zap.Int("paths", len(paths)),
		zap.Int("simulated", len(simulations)),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// resolveWeights 权重解析顺序：请求显式权重 → 命名预设 → 库内默认预设 → 内置等权
func (s *AnalysisService) resolveWeights(req AnalysisRequest) (engine.ScoringWeights, error) {
	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			return engine.ScoringWeights{}, err
		}
		return *req.Weights, nil
	}

	if req.PresetName != "" {
		preset, err := s.PresetRepo.FindByName(req.PresetName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ScoringWeights{}, util.ErrPresetNotFound
			}
			return engine.ScoringWeights{}, err
		}
		return presetWeights(preset), nil
	}

	preset, err := s.PresetRepo.FindDefault()
	if err == nil {
		return presetWeights(preset), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.ScoringWeights{}, err
	}
	return engine.DefaultWeights(), nil
}

func presetWeights(p *model.WeightPreset) engine.ScoringWeights {
	return engine.ScoringWeights{
		SkillMatch:          p.SkillMatch,
		ResourceFit:         p.ResourceFit,
		TimelineFeasibility: p.TimelineFeasibility,
		GoalAlignment:       p.GoalAlignment,
	}
}

// simulateTop 并发推演排名前列的路径，结果按原排名顺序返回
func (s *AnalysisService) simulateTop(profile engine.Profile, paths []engine.Path, top []engine.ScoreBreakdown) ([]engine.SimulationResult, error) {
	type simOutcome struct {
		index  int
		result engine.SimulationResult
		err    error
	}

	var wg sync.WaitGroup
	outcomes := make([]simOutcome, len(top))
	for i, breakdown := range top {
		wg.Add(1)
		go func(i int, pathID string) {
			defer wg.Done()
			result, err := engine.Simulate(profile, findPath(paths, pathID), s.EngineCfg)
			outcomes[i] = simOutcome{index: i, result: result, err: err}
		}(i, breakdown.PathID)
	}
	wg.Wait()

	results := make([]engine.SimulationResult, 0, len(top))
	for _, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("simulate path %s: %w", top[o.index].PathID, o.err)
		}
		results = append(results, o.result)
	}
	return results, nil
}

// buildRoadmap 为最优路径排期。任务拆解协作方带超时重试，
// 重试耗尽或产出非法（循环依赖等）时省略周计划并标记降级，
// 分析整体仍为部分成功而非失败
func (s *AnalysisService) buildRoadmap(ctx context.Context, profile engine.Profile, path engine.Path, sim engine.SimulationResult, budgetOverride float64) (*engine.Roadmap, bool) {
	// 画像与路径在评分阶段已通过校验，这里的差距计算不会失败
	gaps, err := engine.AnalyzeGaps(profile, path, s.EngineCfg)
	if err != nil {
		logger.Log.Warn("技能差距计算失败", zap.String("pathId", path.PathID), zap.Error(err))
	}

	var candidates []engine.RoadmapTask

	backoff := time.Duration(s.Cfg.Analysis.CollaboratorBackoffMS) * time.Millisecond
	err = util.Retry(ctx, s.Cfg.Analysis.CollaboratorAttempts, backoff, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.Cfg.Analysis.CollaboratorTimeout)
		defer cancel()

		tasks, err := s.TaskGen.GenerateTasks(callCtx, profile, path, gaps, sim.Timeline.Milestones)
		if err != nil {
			return err
		}
		candidates = tasks
		return nil
	})
	if err != nil || len(candidates) == 0 {
		monitoring.CollaboratorFailures.WithLabelValues("task_generator").Inc()
		logger.Log.Warn("任务拆解协作方失败，省略周计划",
			zap.String("pathId", path.PathID),
			zap.Error(err),
		)
		return nil, true
	}

	roadmap, err := engine.Schedule(profile, path, sim, candidates, nextMonday(time.Now()), budgetOverride, s.EngineCfg)
	if err != nil {
		// 协作方产出非法任务集，按协作方失败处理
		logger.Log.Warn("协作方任务排期失败，省略周计划",
			zap.String("pathId", path.PathID),
			zap.Error(err),
		)
		return nil, true
	}
	return &roadmap, false
}

func (s *AnalysisService) persist(ownerID uint, profileRow *model.DecisionProfile, weights engine.ScoringWeights, result *AnalysisResult, elapsed time.Duration) (*model.AnalysisReport, error) {
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return nil, err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	topPathID := ""
	if len(result.Rankings) > 0 {
		topPathID = result.Rankings[0].PathID
	}

	report := &model.AnalysisReport{
		OwnerID:        ownerID,
		ProfileID:      profileRow.ID,
		ProfileVersion: profileRow.CurrentVersion,
		WeightsJSON:    string(weightsJSON),
		ResultJSON:     string(resultJSON),
		TopPathID:      topPathID,
		Degraded:       result.Degraded,
		DurationMS:     elapsed.Milliseconds(),
	}
	if err := s.ReportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

// cacheKey 由画像版本、权重与推演参数决定，画像更新后旧缓存自然失效
func (s *AnalysisService) cacheKey(profileRow *model.DecisionProfile, weights engine.ScoringWeights, req AnalysisRequest) string {
	raw := fmt.Sprintf("%d:%d:%.6f:%.6f:%.6f:%.6f:%d:%.2f",
		profileRow.ID, profileRow.CurrentVersion,
		weights.SkillMatch, weights.ResourceFit, weights.TimelineFeasibility, weights.GoalAlignment,
		req.TopN, req.WeeklyHourBudget,
	)
	sum := sha256.Sum256([]byte(raw))
	return "analysis:" + hex.EncodeToString(sum[:16])
}

func (s *AnalysisService) loadCached(ctx context.Context, key string) *AnalysisResult {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	result.Cached = true
	return &result
}

func (s *AnalysisService) storeCached(ctx context.Context, key string, result *AnalysisResult) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, s.Cfg.Analysis.CacheTTL).Err(); err != nil {
		logger.Log.Warn("写入分析缓存失败", zap.Error(err))
	}
}

// Presets 列出可用的权重预设
func (s *AnalysisService) Presets() ([]model.WeightPreset, error) {
	presets, err := s.PresetRepo.FindAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(presets, func(i, j int) bool {
		if presets[i].IsDefault != presets[j].IsDefault {
			return presets[i].IsDefault
		}
		return presets[i].Name < presets[j].Name
	})
	return presets, nil
}

func findPath(paths []engine.Path, pathID string) engine.Path {
	for _, p := range paths {
		if p.PathID == pathID {
			return p
		}
	}
	return engine.Path{}
}

// nextMonday 周计划从下一个周一开始
func nextMonday(now time.Time) time.Time {
	day := now
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}
