package service

import (
	"context"
	"testing"
	"time"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/consts"
	"PulseServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newGroupServiceForTest(
	groupRepo *fakeGroupRepo,
	membershipRepo *fakeMembershipRepo,
	userRepo *fakeUserRepo,
	scoreRepo *fakeScoreRepo,
	commentRepo *fakeCommentRepo,
) GroupService {
	return NewGroupService(groupRepo, membershipRepo, userRepo, scoreRepo, commentRepo, nil)
}

func TestGroupServiceCreateGroup(t *testing.T) {
	initServiceTest()

	t.Run("名称为空返回参数错误", func(t *testing.T) {
		svc := newGroupServiceForTest(&fakeGroupRepo{}, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.CreateGroup(withUserUUID("user-1"), &dto.CreateGroupRequest{Name: "  "})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeGroupNameRequired)
	})

	t.Run("创建者成为已接受的组长", func(t *testing.T) {
		var gotGroup *model.GroupInfo
		var gotOwner *model.GroupMembership
		groupRepo := &fakeGroupRepo{
			createWithOwnerFn: func(ctx context.Context, group *model.GroupInfo, owner *model.GroupMembership) error {
				gotGroup = group
				gotOwner = owner
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.CreateGroup(withUserUUID("user-1"), &dto.CreateGroupRequest{Name: " 周五晚会 "})
		require.NoError(t, err)
		require.NotNil(t, gotGroup)
		require.NotNil(t, gotOwner)
		assert.Equal(t, "周五晚会", gotGroup.Name)
		assert.Equal(t, "user-1", gotGroup.CreatedByUuid)
		require.NotNil(t, gotGroup.InviteCode)
		assert.NotEmpty(t, *gotGroup.InviteCode)
		assert.Equal(t, gotGroup.Uuid, gotOwner.GroupUuid)
		assert.Equal(t, model.GroupRoleOwner, gotOwner.Role)
		assert.Equal(t, model.MembershipAccepted, gotOwner.Status)
		require.NotNil(t, gotOwner.JoinedAt)

		assert.Equal(t, int64(1), resp.MemberCount)
		assert.Equal(t, *gotGroup.InviteCode, resp.InviteCode)
	})
}

func TestGroupServiceCreatorOnlyOperations(t *testing.T) {
	initServiceTest()

	groupRepo := &fakeGroupRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: uuid, Name: "小组", CreatedByUuid: "owner-1"}, nil
		},
	}

	t.Run("非创建者不能重命名", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.UpdateGroup(withUserUUID("member-1"), "group-1", &dto.UpdateGroupRequest{Name: "新名字"})
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNoPermission)
	})

	t.Run("非创建者不能删除", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.DeleteGroup(withUserUUID("member-1"), "group-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNoPermission)
	})

	t.Run("创建者删除成功", func(t *testing.T) {
		deleted := false
		repo := &fakeGroupRepo{
			getByUuidFn: groupRepo.getByUuidFn,
			deleteFn: func(ctx context.Context, uuid string) error {
				deleted = true
				return nil
			},
		}
		svc := newGroupServiceForTest(repo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.DeleteGroup(withUserUUID("owner-1"), "group-1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("小组不存在", func(t *testing.T) {
		svc := newGroupServiceForTest(&fakeGroupRepo{}, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.UpdateGroup(withUserUUID("owner-1"), "missing", &dto.UpdateGroupRequest{Name: "新名字"})
		requireBizCode(t, err, codes.NotFound, consts.CodeGroupNotFound)
	})
}

func TestGroupServiceLeaveGroup(t *testing.T) {
	initServiceTest()

	t.Run("组长不能退出", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{
					GroupUuid: groupUuid,
					UserUuid:  userUuid,
					Role:      model.GroupRoleOwner,
					Status:    model.MembershipAccepted,
				}, nil
			},
		}
		svc := newGroupServiceForTest(&fakeGroupRepo{}, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.LeaveGroup(withUserUUID("owner-1"), "group-1")
		requireBizCode(t, err, codes.FailedPrecondition, consts.CodeOwnerCannotLeave)
	})

	t.Run("普通成员退出删行", func(t *testing.T) {
		deleted := false
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{
					GroupUuid: groupUuid,
					UserUuid:  userUuid,
					Role:      model.GroupRoleMember,
					Status:    model.MembershipAccepted,
				}, nil
			},
			deleteFn: func(ctx context.Context, groupUuid, userUuid string) error {
				deleted = true
				return nil
			},
		}
		svc := newGroupServiceForTest(&fakeGroupRepo{}, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.LeaveGroup(withUserUUID("member-1"), "group-1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("非成员退出视为无权限", func(t *testing.T) {
		svc := newGroupServiceForTest(&fakeGroupRepo{}, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.LeaveGroup(withUserUUID("stranger"), "group-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotGroupMember)
	})
}

func TestGroupServiceRemoveMember(t *testing.T) {
	initServiceTest()

	groupRepo := &fakeGroupRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: uuid, CreatedByUuid: "owner-1"}, nil
		},
	}

	t.Run("创建者不能移除自己", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.RemoveMember(withUserUUID("owner-1"), "group-1", &dto.RemoveMemberRequest{UserUuid: "owner-1"})
		requireBizCode(t, err, codes.FailedPrecondition, consts.CodeCannotRemoveSelf)
	})

	t.Run("非创建者无权移除", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.RemoveMember(withUserUUID("member-1"), "group-1", &dto.RemoveMemberRequest{UserUuid: "member-2"})
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNoPermission)
	})

	t.Run("移除成功", func(t *testing.T) {
		var removedUser string
		membershipRepo := &fakeMembershipRepo{
			deleteFn: func(ctx context.Context, groupUuid, userUuid string) error {
				removedUser = userUuid
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.RemoveMember(withUserUUID("owner-1"), "group-1", &dto.RemoveMemberRequest{UserUuid: "member-2"})
		require.NoError(t, err)
		assert.Equal(t, "member-2", removedUser)
	})
}

func TestGroupServiceInviteFlow(t *testing.T) {
	initServiceTest()

	groupRepo := &fakeGroupRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: uuid, Name: "小组", CreatedByUuid: "owner-1"}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
			return &model.UserInfo{Uuid: uuid, DisplayName: "成员"}, nil
		},
		getFullByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
			return &model.UserInfo{Uuid: uuid, DisplayName: "成员"}, nil
		},
	}

	t.Run("仅创建者可邀请", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.InviteMember(withUserUUID("member-1"), "group-1", &dto.InviteMemberRequest{UserUuid: "user-9"})
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNoPermission)
	})

	t.Run("重复邀请返回已存在", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipPending}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.InviteMember(withUserUUID("owner-1"), "group-1", &dto.InviteMemberRequest{UserUuid: "user-9"})
		requireBizCode(t, err, codes.AlreadyExists, consts.CodeInviteAlreadyExists)
	})

	t.Run("已是成员返回已入组", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipAccepted}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.InviteMember(withUserUUID("owner-1"), "group-1", &dto.InviteMemberRequest{UserUuid: "user-9"})
		requireBizCode(t, err, codes.AlreadyExists, consts.CodeAlreadyGroupMember)
	})

	t.Run("邀请写入待处理记录", func(t *testing.T) {
		var created *model.GroupMembership
		membershipRepo := &fakeMembershipRepo{
			createFn: func(ctx context.Context, m *model.GroupMembership) error {
				created = m
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.InviteMember(withUserUUID("owner-1"), "group-1", &dto.InviteMemberRequest{UserUuid: "user-9"})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, model.MembershipPending, created.Status)
		assert.Equal(t, model.GroupRoleMember, created.Role)
		assert.Equal(t, "owner-1", created.InvitedByUuid)
	})

	t.Run("被邀请人读完整行以拿到邮箱", func(t *testing.T) {
		email := "member@example.com"
		fullReads := 0
		inviteeRepo := &fakeUserRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
				// 缓存路径没有邮箱字段，邀请邮件场景不允许走这里
				return &model.UserInfo{Uuid: uuid, DisplayName: "成员"}, nil
			},
			getFullByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
				fullReads++
				return &model.UserInfo{Uuid: uuid, DisplayName: "成员", Email: &email}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, inviteeRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.InviteMember(withUserUUID("owner-1"), "group-1", &dto.InviteMemberRequest{UserUuid: "user-9"})
		require.NoError(t, err)
		assert.Equal(t, 1, fullReads)
	})

	t.Run("接受邀请不存在", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.AcceptInvite(withUserUUID("user-9"), "group-1")
		requireBizCode(t, err, codes.NotFound, consts.CodeInviteNotFound)
	})

	t.Run("接受邀请推进为已接受", func(t *testing.T) {
		accepted := false
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipPending}, nil
			},
			acceptFn: func(ctx context.Context, groupUuid, userUuid string, joinedAt time.Time) error {
				accepted = true
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.AcceptInvite(withUserUUID("user-9"), "group-1")
		require.NoError(t, err)
		assert.True(t, accepted)
	})

	t.Run("拒绝邀请直接删行", func(t *testing.T) {
		deleted := false
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipPending}, nil
			},
			deleteFn: func(ctx context.Context, groupUuid, userUuid string) error {
				deleted = true
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		err := svc.DeclineInvite(withUserUUID("user-9"), "group-1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestGroupServiceRotateInviteCode(t *testing.T) {
	initServiceTest()

	groupRepo := &fakeGroupRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: uuid, CreatedByUuid: "owner-1"}, nil
		},
	}

	t.Run("非成员不能重置", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.RotateInviteCode(withUserUUID("stranger"), "group-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotGroupMember)
	})

	t.Run("任意已接受成员可重置", func(t *testing.T) {
		var written *string
		repo := &fakeGroupRepo{
			getByUuidFn: groupRepo.getByUuidFn,
			updateInviteCodeFn: func(ctx context.Context, uuid string, code *string) error {
				written = code
				return nil
			},
		}
		membershipRepo := &fakeMembershipRepo{
			isAcceptedMemberFn: func(ctx context.Context, groupUuid, userUuid string) (bool, error) {
				return true, nil
			},
		}
		svc := newGroupServiceForTest(repo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.RotateInviteCode(withUserUUID("member-1"), "group-1")
		require.NoError(t, err)
		require.NotNil(t, written)
		assert.Equal(t, *written, resp.InviteCode)
		assert.NotEmpty(t, resp.InviteCode)
	})
}

func TestGroupServiceJoinByCode(t *testing.T) {
	initServiceTest()

	code := "calm-river-8"
	groupRepo := &fakeGroupRepo{
		getByInviteCodeFn: func(ctx context.Context, got string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: "group-1", Name: "小组", CreatedByUuid: "owner-1", InviteCode: &code}, nil
		},
		countAcceptedMembersFn: func(ctx context.Context, uuid string) (int64, error) {
			return 3, nil
		},
	}

	t.Run("加入码无效", func(t *testing.T) {
		svc := newGroupServiceForTest(&fakeGroupRepo{}, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.JoinByCode(withUserUUID("user-1"), &dto.JoinByCodeRequest{Code: "wrong-code"})
		requireBizCode(t, err, codes.NotFound, consts.CodeInvalidInviteCode)
	})

	t.Run("新成员直接已接受", func(t *testing.T) {
		var created *model.GroupMembership
		membershipRepo := &fakeMembershipRepo{
			createFn: func(ctx context.Context, m *model.GroupMembership) error {
				created = m
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.JoinByCode(withUserUUID("user-1"), &dto.JoinByCodeRequest{Code: " Calm-River-8 "})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, model.MembershipAccepted, created.Status)
		assert.Equal(t, model.GroupRoleMember, created.Role)
		require.NotNil(t, created.JoinedAt)
		assert.Equal(t, int64(3), resp.MemberCount)
	})

	t.Run("已是成员返回已入组", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipAccepted}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.JoinByCode(withUserUUID("user-1"), &dto.JoinByCodeRequest{Code: code})
		requireBizCode(t, err, codes.AlreadyExists, consts.CodeAlreadyGroupMember)
	})

	t.Run("待处理邀请凭码升级", func(t *testing.T) {
		accepted := false
		createCalled := false
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipPending}, nil
			},
			acceptFn: func(ctx context.Context, groupUuid, userUuid string, joinedAt time.Time) error {
				accepted = true
				return nil
			},
			createFn: func(ctx context.Context, m *model.GroupMembership) error {
				createCalled = true
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.JoinByCode(withUserUUID("user-1"), &dto.JoinByCodeRequest{Code: code})
		require.NoError(t, err)
		assert.True(t, accepted)
		assert.False(t, createCalled)
	})
}

func TestGroupServiceJoinWithAccount(t *testing.T) {
	initServiceTest()

	code := "calm-river-8"
	groupRepo := &fakeGroupRepo{
		getByInviteCodeFn: func(ctx context.Context, got string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: "group-1", Name: "小组", CreatedByUuid: "owner-1", InviteCode: &code}, nil
		},
		countAcceptedMembersFn: func(ctx context.Context, uuid string) (int64, error) {
			return 4, nil
		},
	}

	t.Run("昵称为空返回参数错误", func(t *testing.T) {
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.JoinWithAccount(context.Background(), &dto.JoinWithAccountRequest{
			Code:        code,
			DisplayName: "  ",
		})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeDisplayNameRequired)
	})

	t.Run("开户与入组同一事务", func(t *testing.T) {
		var gotUser *model.UserInfo
		var gotMembership *model.GroupMembership
		membershipRepo := &fakeMembershipRepo{
			createUserAndJoinFn: func(ctx context.Context, user *model.UserInfo, m *model.GroupMembership) error {
				gotUser = user
				gotMembership = m
				return nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.JoinWithAccount(context.Background(), &dto.JoinWithAccountRequest{
			Code:        code,
			DisplayName: "Carol",
		})
		require.NoError(t, err)
		require.NotNil(t, gotUser)
		require.NotNil(t, gotMembership)
		assert.Equal(t, gotUser.Uuid, gotMembership.UserUuid)
		assert.Equal(t, "group-1", gotMembership.GroupUuid)
		assert.Equal(t, model.MembershipAccepted, gotMembership.Status)

		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "Carol", resp.UserInfo.DisplayName)
		assert.Equal(t, int64(4), resp.Group.MemberCount)
	})
}

func TestGroupServiceGetGroupDetail(t *testing.T) {
	initServiceTest()

	code := "calm-river-8"
	now := time.Now()
	earlier := now.Add(-time.Hour)

	groupRepo := &fakeGroupRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
			return &model.GroupInfo{Uuid: uuid, Name: "小组", CreatedByUuid: "owner-1", InviteCode: &code}, nil
		},
	}

	t.Run("待处理成员无权查看", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{GroupUuid: groupUuid, UserUuid: userUuid, Status: model.MembershipPending}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.GetGroupDetail(withUserUUID("user-9"), "group-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotGroupMember)
	})

	t.Run("未读只统计每成员最新评分", func(t *testing.T) {
		membershipRepo := &fakeMembershipRepo{
			getFn: func(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
				return &model.GroupMembership{
					GroupUuid: groupUuid,
					UserUuid:  userUuid,
					Role:      model.GroupRoleMember,
					Status:    model.MembershipAccepted,
				}, nil
			},
			listAcceptedByGroupFn: func(ctx context.Context, groupUuid string) ([]*model.GroupMembership, error) {
				return []*model.GroupMembership{
					{GroupUuid: groupUuid, UserUuid: "owner-1", Role: model.GroupRoleOwner, Status: model.MembershipAccepted},
					{GroupUuid: groupUuid, UserUuid: "member-1", Role: model.GroupRoleMember, Status: model.MembershipAccepted},
				}, nil
			},
		}
		// 倒序流：owner-1 最新在前，member-1 的旧评分排在最后
		scoreRepo := &fakeScoreRepo{
			listByGroupFn: func(ctx context.Context, groupUuid string) ([]*model.LifeScore, error) {
				return []*model.LifeScore{
					{Uuid: "score-owner-new", UserUuid: "owner-1", Score: 8, CreatedAt: now},
					{Uuid: "score-member-new", UserUuid: "member-1", Score: 6, CreatedAt: earlier},
					{Uuid: "score-owner-old", UserUuid: "owner-1", Score: 5, CreatedAt: earlier.Add(-time.Hour)},
				}, nil
			},
		}
		countedScores := make(map[string]bool)
		commentRepo := &fakeCommentRepo{
			countUnreadFn: func(ctx context.Context, scoreUuid, groupUuid, viewerUuid string, since *time.Time) (int64, error) {
				countedScores[scoreUuid] = true
				return 2, nil
			},
		}
		userRepo := &fakeUserRepo{
			batchGetByUuidsFn: func(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error) {
				return map[string]*model.UserInfo{
					"owner-1":  {Uuid: "owner-1", DisplayName: "Owner"},
					"member-1": {Uuid: "member-1", DisplayName: "Member"},
				}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, scoreRepo, commentRepo)

		resp, err := svc.GetGroupDetail(withUserUUID("member-1"), "group-1")
		require.NoError(t, err)

		// 每个成员只有最新一条进入未读统计
		assert.True(t, countedScores["score-owner-new"])
		assert.True(t, countedScores["score-member-new"])
		assert.False(t, countedScores["score-owner-old"])
		assert.Equal(t, int64(4), resp.UnreadCommentCount)

		assert.Equal(t, now.Unix(), resp.RecentActivityAt)
		require.NotNil(t, resp.MyLatestScore)
		assert.Equal(t, "score-member-new", resp.MyLatestScore.Uuid)
		assert.Equal(t, model.GroupRoleMember, resp.MyRole)
		assert.Len(t, resp.Members, 2)
		assert.Equal(t, code, resp.Group.InviteCode)
	})
}

func TestGroupServiceListPendingInvites(t *testing.T) {
	initServiceTest()

	t.Run("未入组前不下发加入码", func(t *testing.T) {
		code := "calm-river-8"
		groupRepo := &fakeGroupRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.GroupInfo, error) {
				return &model.GroupInfo{Uuid: uuid, Name: "小组", CreatedByUuid: "owner-1", InviteCode: &code}, nil
			},
			countAcceptedMembersFn: func(ctx context.Context, uuid string) (int64, error) {
				return 2, nil
			},
		}
		membershipRepo := &fakeMembershipRepo{
			listByUserFn: func(ctx context.Context, userUuid string, status int8) ([]*model.GroupMembership, error) {
				require.Equal(t, model.MembershipPending, status)
				return []*model.GroupMembership{
					{GroupUuid: "group-1", UserUuid: userUuid, Status: model.MembershipPending, InvitedByUuid: "owner-1", CreatedAt: time.Now()},
				}, nil
			},
		}
		userRepo := &fakeUserRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
				return &model.UserInfo{Uuid: uuid, DisplayName: "Owner"}, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, membershipRepo, userRepo, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.ListPendingInvites(withUserUUID("user-9"))
		require.NoError(t, err)
		require.Len(t, resp.Invites, 1)
		assert.Empty(t, resp.Invites[0].Group.InviteCode)
		assert.Equal(t, "owner-1", resp.Invites[0].InvitedByUuid)
		assert.Equal(t, "Owner", resp.Invites[0].InvitedByName)
	})
}

func TestGroupServicePreviewByCode(t *testing.T) {
	initServiceTest()

	t.Run("预览仅返回名称与成员数", func(t *testing.T) {
		code := "calm-river-8"
		groupRepo := &fakeGroupRepo{
			getByInviteCodeFn: func(ctx context.Context, got string) (*model.GroupInfo, error) {
				assert.Equal(t, "calm-river-8", got)
				return &model.GroupInfo{Uuid: "group-1", Name: "周五晚会", CreatedByUuid: "owner-1", InviteCode: &code}, nil
			},
			countAcceptedMembersFn: func(ctx context.Context, uuid string) (int64, error) {
				return 5, nil
			},
		}
		svc := newGroupServiceForTest(groupRepo, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		resp, err := svc.PreviewByCode(context.Background(), " CALM-River-8 ")
		require.NoError(t, err)
		assert.Equal(t, "周五晚会", resp.Name)
		assert.Equal(t, int64(5), resp.MemberCount)
	})

	t.Run("空码返回无效", func(t *testing.T) {
		svc := newGroupServiceForTest(&fakeGroupRepo{}, &fakeMembershipRepo{}, &fakeUserRepo{}, &fakeScoreRepo{}, &fakeCommentRepo{})

		_, err := svc.PreviewByCode(context.Background(), "   ")
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeInvalidInviteCode)
	})
}
