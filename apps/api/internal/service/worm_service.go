package service

import (
	"context"
	"errors"
	"strings"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// defaultLeaderboardLimit 排行榜默认条数
const defaultLeaderboardLimit = 10

// wormServiceImpl 街机成绩服务实现
type wormServiceImpl struct {
	wormRepo repository.IWormScoreRepository
	userRepo repository.IUserRepository
}

// NewWormService 创建街机成绩服务实例
func NewWormService(wormRepo repository.IWormScoreRepository, userRepo repository.IUserRepository) WormService {
	return &wormServiceImpl{
		wormRepo: wormRepo,
		userRepo: userRepo,
	}
}

// Submit 提交成绩
// 只在严格高于个人纪录时落库：持平不算刷新，也不产生新行。
func (s *wormServiceImpl) Submit(ctx context.Context, req *dto.SubmitWormScoreRequest) (*dto.SubmitWormScoreResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	levelId := strings.TrimSpace(req.LevelId)
	if levelId == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeLevelRequired)
	}

	best, err := s.wormRepo.BestForUserLevel(ctx, userUuid, levelId)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error(ctx, "查询个人纪录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	if best != nil && req.Score <= best.Score {
		return &dto.SubmitWormScoreResponse{
			NewRecord: false,
			BestScore: best.Score,
		}, nil
	}

	record := &model.WormScore{
		Uuid:     util.GenEntityID(),
		UserUuid: userUuid,
		LevelId:  levelId,
		Score:    req.Score,
	}
	if err := s.wormRepo.Create(ctx, record); err != nil {
		logger.Error(ctx, "写入成绩失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "个人纪录刷新",
		logger.String("level_id", levelId),
		logger.Int64("score", req.Score),
	)
	return &dto.SubmitWormScoreResponse{
		NewRecord: true,
		BestScore: req.Score,
	}, nil
}

// Leaderboard 关卡排行榜（公开接口）
func (s *wormServiceImpl) Leaderboard(ctx context.Context, levelId string, limit int) (*dto.LeaderboardResponse, error) {
	levelId = strings.TrimSpace(levelId)
	if levelId == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeLevelRequired)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	scores, err := s.wormRepo.TopForLevel(ctx, levelId, limit)
	if err != nil {
		logger.Error(ctx, "查询排行榜失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	userUuids := make([]string, 0, len(scores))
	for _, score := range scores {
		userUuids = append(userUuids, score.UserUuid)
	}
	users, err := s.userRepo.BatchGetByUuids(ctx, userUuids)
	if err != nil {
		logger.Error(ctx, "批量查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	entries := make([]*dto.WormScoreInfo, 0, len(scores))
	for _, score := range scores {
		entry := &dto.WormScoreInfo{
			UserUuid: score.UserUuid,
			LevelId:  levelId,
			Score:    score.Score,
		}
		if u, ok := users[score.UserUuid]; ok {
			entry.DisplayName = u.DisplayName
			entry.AvatarUrl = u.AvatarUrl
		}
		entries = append(entries, entry)
	}
	return &dto.LeaderboardResponse{
		LevelId: levelId,
		Entries: entries,
	}, nil
}

// MyHighScore 我的关卡最高分
func (s *wormServiceImpl) MyHighScore(ctx context.Context, levelId string) (*dto.MyHighScoreResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	levelId = strings.TrimSpace(levelId)
	if levelId == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeLevelRequired)
	}

	best, err := s.wormRepo.BestForUserLevel(ctx, userUuid, levelId)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return &dto.MyHighScoreResponse{LevelId: levelId, HasScore: false}, nil
		}
		logger.Error(ctx, "查询个人纪录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	return &dto.MyHighScoreResponse{
		LevelId:   levelId,
		BestScore: best.Score,
		HasScore:  true,
	}, nil
}
