package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// statusTextMaxRunes 状态文字长度上限
const statusTextMaxRunes = 280

// scoreServiceImpl 生活评分服务实现
type scoreServiceImpl struct {
	scoreRepo      repository.IScoreRepository
	membershipRepo repository.IMembershipRepository
	userRepo       repository.IUserRepository
	visibility     *visibilityChecker
}

// NewScoreService 创建评分服务实例
func NewScoreService(
	scoreRepo repository.IScoreRepository,
	membershipRepo repository.IMembershipRepository,
	userRepo repository.IUserRepository,
	connectionRepo repository.IConnectionRepository,
) ScoreService {
	return &scoreServiceImpl{
		scoreRepo:      scoreRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		visibility:     newVisibilityChecker(membershipRepo, scoreRepo, connectionRepo),
	}
}

// CreateScore 发布评分并分享到目标小组
// 业务流程：
//  1. 校验分值范围与状态文字长度
//  2. 目标小组去重，逐个校验发布者是已接受成员（全或无）
//  3. 事务写入评分与全部分享行
//
// 错误码映射：
//   - codes.InvalidArgument: 分值越界 / 状态文字过长 / 无目标小组
//   - codes.PermissionDenied: 任一目标小组不是已接受成员
func (s *scoreServiceImpl) CreateScore(ctx context.Context, req *dto.CreateScoreRequest) (*dto.CreateScoreResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.Score < 0 || req.Score > 10 {
		return nil, bizError(codes.InvalidArgument, consts.CodeScoreOutOfRange)
	}
	if utf8.RuneCountInString(req.StatusText) > statusTextMaxRunes {
		return nil, bizError(codes.InvalidArgument, consts.CodeStatusTooLong)
	}

	// 去重，保持请求顺序
	groupUuids := make([]string, 0, len(req.GroupUuids))
	seen := make(map[string]struct{}, len(req.GroupUuids))
	for _, g := range req.GroupUuids {
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		groupUuids = append(groupUuids, g)
	}
	if len(groupUuids) == 0 {
		return nil, bizError(codes.InvalidArgument, consts.CodeNoTargetGroups)
	}

	// 全或无：任一目标组校验失败整个请求失败
	for _, groupUuid := range groupUuids {
		ok, merr := s.membershipRepo.IsAcceptedMember(ctx, groupUuid, userUuid)
		if merr != nil {
			logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", merr))
			return nil, errInternal()
		}
		if !ok {
			return nil, bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
		}
	}

	score := &model.LifeScore{
		Uuid:       util.GenEntityID(),
		UserUuid:   userUuid,
		Score:      req.Score,
		StatusText: req.StatusText,
		MediaUrl:   req.MediaUrl,
	}
	shares := make([]*model.LifeScoreGroup, 0, len(groupUuids))
	for _, groupUuid := range groupUuids {
		shares = append(shares, &model.LifeScoreGroup{
			LifeScoreUuid: score.Uuid,
			GroupUuid:     groupUuid,
		})
	}

	if err := s.scoreRepo.CreateWithGroups(ctx, score, shares); err != nil {
		logger.Error(ctx, "发布评分失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "评分发布成功",
		logger.String("score_uuid", score.Uuid),
		logger.Int("group_count", len(groupUuids)),
	)

	author, _ := s.userRepo.GetByUuid(ctx, userUuid)
	return &dto.CreateScoreResponse{
		Score:      modelToScoreInfo(score, author),
		GroupUuids: groupUuids,
	}, nil
}

// DeleteScore 删除评分（仅作者）
func (s *scoreServiceImpl) DeleteScore(ctx context.Context, scoreUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	score, err := s.visibility.getScoreOrBizError(ctx, scoreUuid)
	if err != nil {
		return err
	}
	if score.UserUuid != userUuid {
		return bizError(codes.PermissionDenied, consts.CodeNotScoreOwner)
	}

	if err := s.scoreRepo.Delete(ctx, scoreUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeScoreNotFound)
		}
		logger.Error(ctx, "删除评分失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// GetGroupFeed 小组评分流（仅已接受成员）
func (s *scoreServiceImpl) GetGroupFeed(ctx context.Context, groupUuid string) (*dto.GroupFeedResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.membershipRepo.IsAcceptedMember(ctx, groupUuid, userUuid)
	if err != nil {
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	if !ok {
		return nil, bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
	}

	scores, err := s.scoreRepo.ListByGroup(ctx, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询小组评分流失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items, err := s.assembleScores(ctx, scores)
	if err != nil {
		return nil, err
	}
	return &dto.GroupFeedResponse{Scores: items}, nil
}

// GetScore 获取单条评分
// 宽松路径：无权查看时不报错，只把状态文字置空（分值本身可见）。
func (s *scoreServiceImpl) GetScore(ctx context.Context, scoreUuid string) (*dto.GetScoreResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	score, err := s.visibility.getScoreOrBizError(ctx, scoreUuid)
	if err != nil {
		return nil, err
	}

	visible, err := s.visibility.CanViewScore(ctx, score, userUuid)
	if err != nil {
		logger.Error(ctx, "可见性判定失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	author, _ := s.userRepo.GetByUuid(ctx, score.UserUuid)
	info := modelToScoreInfo(score, author)
	if !visible {
		info.StatusText = ""
		info.MediaUrl = ""
	}
	return &dto.GetScoreResponse{Score: info}, nil
}

// ListMyScores 我的评分列表
func (s *scoreServiceImpl) ListMyScores(ctx context.Context) (*dto.MyScoresResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.ListByUser(ctx, userUuid)
	if err != nil {
		logger.Error(ctx, "查询我的评分失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items, err := s.assembleScores(ctx, scores)
	if err != nil {
		return nil, err
	}
	return &dto.MyScoresResponse{Scores: items}, nil
}

// assembleScores 批量补全作者信息
func (s *scoreServiceImpl) assembleScores(ctx context.Context, scores []*model.LifeScore) ([]*dto.ScoreInfo, error) {
	authorUuids := make([]string, 0, len(scores))
	seen := make(map[string]struct{}, len(scores))
	for _, score := range scores {
		if _, ok := seen[score.UserUuid]; !ok {
			seen[score.UserUuid] = struct{}{}
			authorUuids = append(authorUuids, score.UserUuid)
		}
	}

	authors, err := s.userRepo.BatchGetByUuids(ctx, authorUuids)
	if err != nil {
		logger.Error(ctx, "批量查询作者失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items := make([]*dto.ScoreInfo, 0, len(scores))
	for _, score := range scores {
		items = append(items, modelToScoreInfo(score, authors[score.UserUuid]))
	}
	return items, nil
}
