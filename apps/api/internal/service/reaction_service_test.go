package service

import (
	"context"
	"strings"
	"testing"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newReactionServiceForTest(
	reactionRepo *fakeReactionRepo,
	commentRepo *fakeCommentRepo,
	scoreRepo *fakeScoreRepo,
	membershipRepo *fakeMembershipRepo,
	connectionRepo *fakeConnectionRepo,
) ReactionService {
	return NewReactionService(reactionRepo, commentRepo, scoreRepo, membershipRepo, connectionRepo)
}

func reactionScoreRepoForTest() *fakeScoreRepo {
	return &fakeScoreRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.LifeScore, error) {
			return &model.LifeScore{Uuid: uuid, UserUuid: "author-1", Score: 7}, nil
		},
		isSharedToGroupFn: func(ctx context.Context, scoreUuid, groupUuid string) (bool, error) {
			return true, nil
		},
	}
}

func acceptedMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{
		isAcceptedMemberFn: func(ctx context.Context, groupUuid, userUuid string) (bool, error) {
			return true, nil
		},
	}
}

func TestReactionServiceToggleScoreReaction(t *testing.T) {
	initServiceTest()

	t.Run("表情为空或超长返回无效", func(t *testing.T) {
		svc := newReactionServiceForTest(&fakeReactionRepo{}, &fakeCommentRepo{}, &fakeScoreRepo{}, &fakeMembershipRepo{}, &fakeConnectionRepo{})

		_, err := svc.ToggleScoreReaction(withUserUUID("user-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     "   ",
		})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeInvalidEmoji)

		_, err = svc.ToggleScoreReaction(withUserUUID("user-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     strings.Repeat("😀", 9),
		})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeInvalidEmoji)
	})

	t.Run("无表态时新增", func(t *testing.T) {
		var upserted *model.ScoreReaction
		reactionRepo := &fakeReactionRepo{
			upsertScoreReactionFn: func(ctx context.Context, reaction *model.ScoreReaction) error {
				upserted = reaction
				return nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, &fakeCommentRepo{}, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleScoreReaction(withUserUUID("member-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     " 👍 ",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionAdded, resp.Action)
		assert.Equal(t, "👍", resp.Emoji)
		require.NotNil(t, upserted)
		assert.Equal(t, "👍", upserted.Emoji)
		assert.Equal(t, "member-1", upserted.UserUuid)
	})

	t.Run("同表情再点一次取消", func(t *testing.T) {
		deleted := false
		reactionRepo := &fakeReactionRepo{
			getScoreReactionFn: func(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error) {
				return &model.ScoreReaction{LifeScoreUuid: scoreUuid, UserUuid: userUuid, GroupUuid: groupUuid, Emoji: "👍"}, nil
			},
			deleteScoreReactionFn: func(ctx context.Context, scoreUuid, userUuid, groupUuid string) error {
				deleted = true
				return nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, &fakeCommentRepo{}, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleScoreReaction(withUserUUID("member-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     "👍",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionRemoved, resp.Action)
		assert.True(t, deleted)
	})

	t.Run("并发下已被取消仍返回取消", func(t *testing.T) {
		reactionRepo := &fakeReactionRepo{
			getScoreReactionFn: func(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error) {
				return &model.ScoreReaction{LifeScoreUuid: scoreUuid, UserUuid: userUuid, GroupUuid: groupUuid, Emoji: "👍"}, nil
			},
			deleteScoreReactionFn: func(ctx context.Context, scoreUuid, userUuid, groupUuid string) error {
				return repository.ErrRecordNotFound
			},
		}
		svc := newReactionServiceForTest(reactionRepo, &fakeCommentRepo{}, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleScoreReaction(withUserUUID("member-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     "👍",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionRemoved, resp.Action)
	})

	t.Run("不同表情替换", func(t *testing.T) {
		var upserted *model.ScoreReaction
		reactionRepo := &fakeReactionRepo{
			getScoreReactionFn: func(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error) {
				return &model.ScoreReaction{LifeScoreUuid: scoreUuid, UserUuid: userUuid, GroupUuid: groupUuid, Emoji: "👍"}, nil
			},
			upsertScoreReactionFn: func(ctx context.Context, reaction *model.ScoreReaction) error {
				upserted = reaction
				return nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, &fakeCommentRepo{}, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleScoreReaction(withUserUUID("member-1"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     "❤️",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionReplaced, resp.Action)
		assert.Equal(t, "❤️", resp.Emoji)
		require.NotNil(t, upserted)
		assert.Equal(t, "❤️", upserted.Emoji)
	})

	t.Run("无线程访问权不能表态", func(t *testing.T) {
		svc := newReactionServiceForTest(&fakeReactionRepo{}, &fakeCommentRepo{}, reactionScoreRepoForTest(), &fakeMembershipRepo{}, &fakeConnectionRepo{})

		_, err := svc.ToggleScoreReaction(withUserUUID("stranger"), &dto.ToggleScoreReactionRequest{
			ScoreUuid: "score-1",
			GroupUuid: "group-1",
			Emoji:     "👍",
		})
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotGroupMember)
	})
}

func TestReactionServiceToggleCommentReaction(t *testing.T) {
	initServiceTest()

	t.Run("评论不存在", func(t *testing.T) {
		svc := newReactionServiceForTest(&fakeReactionRepo{}, &fakeCommentRepo{}, &fakeScoreRepo{}, &fakeMembershipRepo{}, &fakeConnectionRepo{})

		_, err := svc.ToggleCommentReaction(withUserUUID("user-1"), &dto.ToggleCommentReactionRequest{
			CommentUuid: "missing",
			Emoji:       "👍",
		})
		requireBizCode(t, err, codes.NotFound, consts.CodeCommentNotFound)
	})

	t.Run("无表态时新增", func(t *testing.T) {
		commentRepo := &fakeCommentRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.ScoreComment, error) {
				return &model.ScoreComment{Uuid: uuid, LifeScoreUuid: "score-1", GroupUuid: "group-1", AuthorUuid: "author-1"}, nil
			},
		}
		var upserted *model.CommentReaction
		reactionRepo := &fakeReactionRepo{
			upsertCommentReactionFn: func(ctx context.Context, reaction *model.CommentReaction) error {
				upserted = reaction
				return nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, commentRepo, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleCommentReaction(withUserUUID("member-1"), &dto.ToggleCommentReactionRequest{
			CommentUuid: "comment-1",
			Emoji:       "👍",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionAdded, resp.Action)
		require.NotNil(t, upserted)
		assert.Equal(t, "comment-1", upserted.CommentUuid)
	})

	t.Run("同表情取消", func(t *testing.T) {
		commentRepo := &fakeCommentRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.ScoreComment, error) {
				return &model.ScoreComment{Uuid: uuid, LifeScoreUuid: "score-1", GroupUuid: "group-1", AuthorUuid: "author-1"}, nil
			},
		}
		reactionRepo := &fakeReactionRepo{
			getCommentReactionFn: func(ctx context.Context, commentUuid, userUuid string) (*model.CommentReaction, error) {
				return &model.CommentReaction{CommentUuid: commentUuid, UserUuid: userUuid, Emoji: "👍"}, nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, commentRepo, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.ToggleCommentReaction(withUserUUID("member-1"), &dto.ToggleCommentReactionRequest{
			CommentUuid: "comment-1",
			Emoji:       "👍",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReactionRemoved, resp.Action)
	})
}

func TestReactionServiceGetScoreReactionSummary(t *testing.T) {
	initServiceTest()

	t.Run("按表情聚合且保持首次出现顺序", func(t *testing.T) {
		reactionRepo := &fakeReactionRepo{
			listScoreReactionsFn: func(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreReaction, error) {
				return []*model.ScoreReaction{
					{LifeScoreUuid: scoreUuid, UserUuid: "user-a", GroupUuid: groupUuid, Emoji: "👍"},
					{LifeScoreUuid: scoreUuid, UserUuid: "user-b", GroupUuid: groupUuid, Emoji: "❤️"},
					{LifeScoreUuid: scoreUuid, UserUuid: "viewer-1", GroupUuid: groupUuid, Emoji: "👍"},
				}, nil
			},
		}
		svc := newReactionServiceForTest(reactionRepo, &fakeCommentRepo{}, reactionScoreRepoForTest(), acceptedMembershipRepo(), &fakeConnectionRepo{})

		resp, err := svc.GetScoreReactionSummary(withUserUUID("viewer-1"), "score-1", "group-1")
		require.NoError(t, err)
		require.Len(t, resp.Reactions, 2)

		assert.Equal(t, "👍", resp.Reactions[0].Emoji)
		assert.Equal(t, int64(2), resp.Reactions[0].Count)
		assert.True(t, resp.Reactions[0].HasReacted)
		assert.Equal(t, []string{"user-a", "viewer-1"}, resp.Reactions[0].UserUuids)

		assert.Equal(t, "❤️", resp.Reactions[1].Emoji)
		assert.Equal(t, int64(1), resp.Reactions[1].Count)
		assert.False(t, resp.Reactions[1].HasReacted)
	})

	t.Run("无权访问线程不能查看汇总", func(t *testing.T) {
		svc := newReactionServiceForTest(&fakeReactionRepo{}, &fakeCommentRepo{}, reactionScoreRepoForTest(), &fakeMembershipRepo{}, &fakeConnectionRepo{})

		_, err := svc.GetScoreReactionSummary(withUserUUID("stranger"), "score-1", "group-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotGroupMember)
	})
}
