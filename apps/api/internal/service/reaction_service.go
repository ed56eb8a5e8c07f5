package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/logger"

	"google.golang.org/grpc/codes"
)

// emojiMaxRunes 表情长度上限（按字符数，组合 emoji 会有多个码点）
const emojiMaxRunes = 8

// reactionServiceImpl 表态服务实现
type reactionServiceImpl struct {
	reactionRepo repository.IReactionRepository
	commentRepo  repository.ICommentRepository
	visibility   *visibilityChecker
}

// NewReactionService 创建表态服务实例
func NewReactionService(
	reactionRepo repository.IReactionRepository,
	commentRepo repository.ICommentRepository,
	scoreRepo repository.IScoreRepository,
	membershipRepo repository.IMembershipRepository,
	connectionRepo repository.IConnectionRepository,
) ReactionService {
	return &reactionServiceImpl{
		reactionRepo: reactionRepo,
		commentRepo:  commentRepo,
		visibility:   newVisibilityChecker(membershipRepo, scoreRepo, connectionRepo),
	}
}

// ToggleScoreReaction 评分表态切换
// 状态机：已有同表情 -> 取消；已有不同表情 -> 替换；没有 -> 新增。
// 新增路径走 upsert，并发重复请求收敛为替换而不是报错。
func (s *reactionServiceImpl) ToggleScoreReaction(ctx context.Context, req *dto.ToggleScoreReactionRequest) (*dto.ToggleReactionResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emoji, err := normalizeEmoji(req.Emoji)
	if err != nil {
		return nil, err
	}

	score, err := s.visibility.getScoreOrBizError(ctx, req.ScoreUuid)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CheckThreadAccess(ctx, score, req.GroupUuid, userUuid); err != nil {
		return nil, err
	}

	existing, err := s.reactionRepo.GetScoreReaction(ctx, req.ScoreUuid, userUuid, req.GroupUuid)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error(ctx, "查询表态失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	switch {
	case existing != nil && existing.Emoji == emoji:
		if derr := s.reactionRepo.DeleteScoreReaction(ctx, req.ScoreUuid, userUuid, req.GroupUuid); derr != nil {
			if errors.Is(derr, repository.ErrRecordNotFound) {
				// 并发下已被取消，结果一致
				return &dto.ToggleReactionResponse{Action: model.ReactionRemoved, Emoji: emoji}, nil
			}
			logger.Error(ctx, "取消表态失败", logger.ErrorField("error", derr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionRemoved, Emoji: emoji}, nil

	case existing != nil:
		if uerr := s.reactionRepo.UpsertScoreReaction(ctx, &model.ScoreReaction{
			LifeScoreUuid: req.ScoreUuid,
			UserUuid:      userUuid,
			GroupUuid:     req.GroupUuid,
			Emoji:         emoji,
		}); uerr != nil {
			logger.Error(ctx, "替换表态失败", logger.ErrorField("error", uerr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionReplaced, Emoji: emoji}, nil

	default:
		if uerr := s.reactionRepo.UpsertScoreReaction(ctx, &model.ScoreReaction{
			LifeScoreUuid: req.ScoreUuid,
			UserUuid:      userUuid,
			GroupUuid:     req.GroupUuid,
			Emoji:         emoji,
		}); uerr != nil {
			logger.Error(ctx, "新增表态失败", logger.ErrorField("error", uerr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionAdded, Emoji: emoji}, nil
	}
}

// ToggleCommentReaction 评论表态切换（状态机同评分表态）
func (s *reactionServiceImpl) ToggleCommentReaction(ctx context.Context, req *dto.ToggleCommentReactionRequest) (*dto.ToggleReactionResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emoji, err := normalizeEmoji(req.Emoji)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByUuid(ctx, req.CommentUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeCommentNotFound)
		}
		logger.Error(ctx, "查询评论失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	// 能看到评论所在线程才能表态
	score, err := s.visibility.getScoreOrBizError(ctx, comment.LifeScoreUuid)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CheckThreadAccess(ctx, score, comment.GroupUuid, userUuid); err != nil {
		return nil, err
	}

	existing, err := s.reactionRepo.GetCommentReaction(ctx, req.CommentUuid, userUuid)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error(ctx, "查询表态失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	switch {
	case existing != nil && existing.Emoji == emoji:
		if derr := s.reactionRepo.DeleteCommentReaction(ctx, req.CommentUuid, userUuid); derr != nil {
			if errors.Is(derr, repository.ErrRecordNotFound) {
				return &dto.ToggleReactionResponse{Action: model.ReactionRemoved, Emoji: emoji}, nil
			}
			logger.Error(ctx, "取消表态失败", logger.ErrorField("error", derr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionRemoved, Emoji: emoji}, nil

	case existing != nil:
		if uerr := s.reactionRepo.UpsertCommentReaction(ctx, &model.CommentReaction{
			CommentUuid: req.CommentUuid,
			UserUuid:    userUuid,
			Emoji:       emoji,
		}); uerr != nil {
			logger.Error(ctx, "替换表态失败", logger.ErrorField("error", uerr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionReplaced, Emoji: emoji}, nil

	default:
		if uerr := s.reactionRepo.UpsertCommentReaction(ctx, &model.CommentReaction{
			CommentUuid: req.CommentUuid,
			UserUuid:    userUuid,
			Emoji:       emoji,
		}); uerr != nil {
			logger.Error(ctx, "新增表态失败", logger.ErrorField("error", uerr))
			return nil, errInternal()
		}
		return &dto.ToggleReactionResponse{Action: model.ReactionAdded, Emoji: emoji}, nil
	}
}

// GetScoreReactionSummary 评分表态按表情汇总（访问要求同线程）
func (s *reactionServiceImpl) GetScoreReactionSummary(ctx context.Context, scoreUuid, groupUuid string) (*dto.ScoreReactionSummaryResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	score, err := s.visibility.getScoreOrBizError(ctx, scoreUuid)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CheckThreadAccess(ctx, score, groupUuid, userUuid); err != nil {
		return nil, err
	}

	reactions, err := s.reactionRepo.ListScoreReactions(ctx, scoreUuid, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询表态列表失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	pairs := make([]reactionPair, 0, len(reactions))
	for _, r := range reactions {
		pairs = append(pairs, reactionPair{Emoji: r.Emoji, UserUuid: r.UserUuid})
	}
	return &dto.ScoreReactionSummaryResponse{
		Reactions: aggregateReactions(pairs, userUuid),
	}, nil
}

// ==================== 汇总辅助 ====================

// reactionPair 表态聚合的最小单元
type reactionPair struct {
	Emoji    string
	UserUuid string
}

// aggregateReactions 按表情聚合，保持首次出现顺序
func aggregateReactions(pairs []reactionPair, viewerUuid string) []*dto.ReactionSummary {
	order := make([]string, 0, len(pairs))
	byEmoji := make(map[string]*dto.ReactionSummary, len(pairs))
	for _, p := range pairs {
		summary, ok := byEmoji[p.Emoji]
		if !ok {
			summary = &dto.ReactionSummary{Emoji: p.Emoji}
			byEmoji[p.Emoji] = summary
			order = append(order, p.Emoji)
		}
		summary.Count++
		summary.UserUuids = append(summary.UserUuids, p.UserUuid)
		if p.UserUuid == viewerUuid {
			summary.HasReacted = true
		}
	}

	result := make([]*dto.ReactionSummary, 0, len(order))
	for _, emoji := range order {
		result = append(result, byEmoji[emoji])
	}
	return result
}

// normalizeEmoji 校验并规整表情：去空格、非空、不超过 emojiMaxRunes 个字符
func normalizeEmoji(emoji string) (string, error) {
	trimmed := strings.TrimSpace(emoji)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > emojiMaxRunes {
		return "", bizError(codes.InvalidArgument, consts.CodeInvalidEmoji)
	}
	return trimmed, nil
}
