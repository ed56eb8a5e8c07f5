package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// commentMaxRunes 评论长度上限
const commentMaxRunes = 500

// commentServiceImpl 评论服务实现
type commentServiceImpl struct {
	commentRepo  repository.ICommentRepository
	reactionRepo repository.IReactionRepository
	userRepo     repository.IUserRepository
	visibility   *visibilityChecker
}

// NewCommentService 创建评论服务实例
func NewCommentService(
	commentRepo repository.ICommentRepository,
	reactionRepo repository.IReactionRepository,
	userRepo repository.IUserRepository,
	scoreRepo repository.IScoreRepository,
	membershipRepo repository.IMembershipRepository,
	connectionRepo repository.IConnectionRepository,
) CommentService {
	return &commentServiceImpl{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		visibility:   newVisibilityChecker(membershipRepo, scoreRepo, connectionRepo),
	}
}

// GetThread 评论线程
// 严格鉴权：线程访问失败直接报错，不做静默降级。
// 未读数是读取时刻的快照，标记已读要显式调 MarkRead。
func (s *commentServiceImpl) GetThread(ctx context.Context, scoreUuid, groupUuid string) (*dto.ThreadResponse, error) {
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

	comments, err := s.commentRepo.ListByThread(ctx, scoreUuid, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询评论线程失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items, err := s.assembleComments(ctx, comments, userUuid)
	if err != nil {
		return nil, err
	}

	since, err := s.commentRepo.GetReadMark(ctx, userUuid, scoreUuid, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询已读检查点失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	unread, err := s.commentRepo.CountUnread(ctx, scoreUuid, groupUuid, userUuid, since)
	if err != nil {
		logger.Error(ctx, "统计未读评论失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	return &dto.ThreadResponse{
		Comments:    items,
		UnreadCount: unread,
	}, nil
}

// CreateComment 发表评论
// 内容为空时必须带附图；长度上限按字符数而不是字节数。
func (s *commentServiceImpl) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentInfo, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && req.MediaUrl == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeCommentEmpty)
	}
	if utf8.RuneCountInString(content) > commentMaxRunes {
		return nil, bizError(codes.InvalidArgument, consts.CodeCommentTooLong)
	}

	score, err := s.visibility.getScoreOrBizError(ctx, req.ScoreUuid)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.CheckThreadAccess(ctx, score, req.GroupUuid, userUuid); err != nil {
		return nil, err
	}

	comment := &model.ScoreComment{
		Uuid:          util.GenEntityID(),
		LifeScoreUuid: req.ScoreUuid,
		GroupUuid:     req.GroupUuid,
		AuthorUuid:    userUuid,
		Content:       content,
		MediaUrl:      req.MediaUrl,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.Error(ctx, "发表评论失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	author, _ := s.userRepo.GetByUuid(ctx, userUuid)
	info := modelToCommentInfo(comment, author)
	info.Reactions = []*dto.ReactionSummary{}
	return info, nil
}

// DeleteComment 删除评论（仅作者）
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByUuid(ctx, commentUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeCommentNotFound)
		}
		logger.Error(ctx, "查询评论失败", logger.ErrorField("error", err))
		return errInternal()
	}
	if comment.AuthorUuid != userUuid {
		return bizError(codes.PermissionDenied, consts.CodeNotCommentAuthor)
	}

	if err := s.commentRepo.Delete(ctx, commentUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeCommentNotFound)
		}
		logger.Error(ctx, "删除评论失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// MarkRead 标记线程已读（把检查点推进到当前时刻，幂等）
func (s *commentServiceImpl) MarkRead(ctx context.Context, req *dto.MarkReadRequest) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	score, err := s.visibility.getScoreOrBizError(ctx, req.ScoreUuid)
	if err != nil {
		return err
	}
	if err := s.visibility.CheckThreadAccess(ctx, score, req.GroupUuid, userUuid); err != nil {
		return err
	}

	if err := s.commentRepo.UpsertReadMark(ctx, userUuid, req.ScoreUuid, req.GroupUuid, time.Now()); err != nil {
		logger.Error(ctx, "推进已读检查点失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// assembleComments 补全作者信息与表态汇总
func (s *commentServiceImpl) assembleComments(ctx context.Context, comments []*model.ScoreComment, viewerUuid string) ([]*dto.CommentInfo, error) {
	commentUuids := make([]string, 0, len(comments))
	authorUuids := make([]string, 0, len(comments))
	seen := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		commentUuids = append(commentUuids, c.Uuid)
		if _, ok := seen[c.AuthorUuid]; !ok {
			seen[c.AuthorUuid] = struct{}{}
			authorUuids = append(authorUuids, c.AuthorUuid)
		}
	}

	authors, err := s.userRepo.BatchGetByUuids(ctx, authorUuids)
	if err != nil {
		logger.Error(ctx, "批量查询作者失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	reactions, err := s.reactionRepo.ListCommentReactions(ctx, commentUuids)
	if err != nil {
		logger.Error(ctx, "批量查询评论表态失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	pairsByComment := make(map[string][]reactionPair, len(comments))
	for _, r := range reactions {
		pairsByComment[r.CommentUuid] = append(pairsByComment[r.CommentUuid], reactionPair{
			Emoji:    r.Emoji,
			UserUuid: r.UserUuid,
		})
	}

	items := make([]*dto.CommentInfo, 0, len(comments))
	for _, c := range comments {
		info := modelToCommentInfo(c, authors[c.AuthorUuid])
		info.Reactions = aggregateReactions(pairsByComment[c.Uuid], viewerUuid)
		items = append(items, info)
	}
	return items, nil
}
