package service

import (
	"context"
	"testing"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/consts"
	"PulseServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestWormServiceSubmit(t *testing.T) {
	initServiceTest()

	t.Run("关卡ID为空返回参数错误", func(t *testing.T) {
		svc := NewWormService(&fakeWormRepo{}, &fakeUserRepo{})

		_, err := svc.Submit(withUserUUID("user-1"), &dto.SubmitWormScoreRequest{
			LevelId: "   ",
			Score:   100,
		})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeLevelRequired)
	})

	t.Run("首次提交即为新纪录", func(t *testing.T) {
		var created *model.WormScore
		wormRepo := &fakeWormRepo{
			createFn: func(ctx context.Context, w *model.WormScore) error {
				created = w
				return nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		resp, err := svc.Submit(withUserUUID("user-1"), &dto.SubmitWormScoreRequest{
			LevelId: "level-3",
			Score:   120,
		})
		require.NoError(t, err)
		assert.True(t, resp.NewRecord)
		assert.Equal(t, int64(120), resp.BestScore)
		require.NotNil(t, created)
		assert.Equal(t, "user-1", created.UserUuid)
		assert.Equal(t, "level-3", created.LevelId)
		assert.Equal(t, int64(120), created.Score)
	})

	t.Run("持平不刷新纪录也不落库", func(t *testing.T) {
		createCalled := false
		wormRepo := &fakeWormRepo{
			bestForUserLevelFn: func(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
				return &model.WormScore{UserUuid: userUuid, LevelId: levelId, Score: 200}, nil
			},
			createFn: func(ctx context.Context, w *model.WormScore) error {
				createCalled = true
				return nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		resp, err := svc.Submit(withUserUUID("user-1"), &dto.SubmitWormScoreRequest{
			LevelId: "level-3",
			Score:   200,
		})
		require.NoError(t, err)
		assert.False(t, resp.NewRecord)
		assert.Equal(t, int64(200), resp.BestScore)
		assert.False(t, createCalled)
	})

	t.Run("低于纪录返回现有最高分", func(t *testing.T) {
		wormRepo := &fakeWormRepo{
			bestForUserLevelFn: func(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
				return &model.WormScore{UserUuid: userUuid, LevelId: levelId, Score: 300}, nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		resp, err := svc.Submit(withUserUUID("user-1"), &dto.SubmitWormScoreRequest{
			LevelId: "level-3",
			Score:   50,
		})
		require.NoError(t, err)
		assert.False(t, resp.NewRecord)
		assert.Equal(t, int64(300), resp.BestScore)
	})

	t.Run("严格高于纪录才刷新", func(t *testing.T) {
		var created *model.WormScore
		wormRepo := &fakeWormRepo{
			bestForUserLevelFn: func(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
				return &model.WormScore{UserUuid: userUuid, LevelId: levelId, Score: 200}, nil
			},
			createFn: func(ctx context.Context, w *model.WormScore) error {
				created = w
				return nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		resp, err := svc.Submit(withUserUUID("user-1"), &dto.SubmitWormScoreRequest{
			LevelId: "level-3",
			Score:   201,
		})
		require.NoError(t, err)
		assert.True(t, resp.NewRecord)
		assert.Equal(t, int64(201), resp.BestScore)
		require.NotNil(t, created)
	})
}

func TestWormServiceLeaderboard(t *testing.T) {
	initServiceTest()

	t.Run("关卡ID为空返回参数错误", func(t *testing.T) {
		svc := NewWormService(&fakeWormRepo{}, &fakeUserRepo{})

		_, err := svc.Leaderboard(context.Background(), "  ", 10)
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeLevelRequired)
	})

	t.Run("条数缺省为10", func(t *testing.T) {
		var gotLimit int
		wormRepo := &fakeWormRepo{
			topForLevelFn: func(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error) {
				gotLimit = limit
				return nil, nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		_, err := svc.Leaderboard(context.Background(), "level-1", 0)
		require.NoError(t, err)
		assert.Equal(t, 10, gotLimit)
	})

	t.Run("条目补全用户昵称头像", func(t *testing.T) {
		wormRepo := &fakeWormRepo{
			topForLevelFn: func(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error) {
				return []*model.WormScore{
					{UserUuid: "user-1", LevelId: levelId, Score: 300},
					{UserUuid: "user-2", LevelId: levelId, Score: 150},
				}, nil
			},
		}
		userRepo := &fakeUserRepo{
			batchGetByUuidsFn: func(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error) {
				return map[string]*model.UserInfo{
					"user-1": {Uuid: "user-1", DisplayName: "Alice", AvatarUrl: "a.png"},
				}, nil
			},
		}
		svc := NewWormService(wormRepo, userRepo)

		resp, err := svc.Leaderboard(context.Background(), "level-1", 10)
		require.NoError(t, err)
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, "Alice", resp.Entries[0].DisplayName)
		assert.Equal(t, int64(300), resp.Entries[0].Score)
		// 查不到的用户保留占位，不丢条目
		assert.Empty(t, resp.Entries[1].DisplayName)
		assert.Equal(t, int64(150), resp.Entries[1].Score)
	})
}

func TestWormServiceMyHighScore(t *testing.T) {
	initServiceTest()

	t.Run("无记录返回HasScore为假", func(t *testing.T) {
		svc := NewWormService(&fakeWormRepo{}, &fakeUserRepo{})

		resp, err := svc.MyHighScore(withUserUUID("user-1"), "level-1")
		require.NoError(t, err)
		assert.False(t, resp.HasScore)
		assert.Equal(t, int64(0), resp.BestScore)
		assert.Equal(t, "level-1", resp.LevelId)
	})

	t.Run("有记录返回最高分", func(t *testing.T) {
		wormRepo := &fakeWormRepo{
			bestForUserLevelFn: func(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
				return &model.WormScore{UserUuid: userUuid, LevelId: levelId, Score: 420}, nil
			},
		}
		svc := NewWormService(wormRepo, &fakeUserRepo{})

		resp, err := svc.MyHighScore(withUserUUID("user-1"), "level-1")
		require.NoError(t, err)
		assert.True(t, resp.HasScore)
		assert.Equal(t, int64(420), resp.BestScore)
	})
}
