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

func TestConnectionServiceSendRequest(t *testing.T) {
	initServiceTest()

	peerRepo := &fakeUserRepo{
		getByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
			return &model.UserInfo{Uuid: uuid, DisplayName: "Peer"}, nil
		},
	}

	t.Run("不能连接自己", func(t *testing.T) {
		svc := NewConnectionService(&fakeConnectionRepo{}, &fakeUserRepo{})

		_, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "user-1"})
		requireBizCode(t, err, codes.InvalidArgument, consts.CodeCannotConnectSelf)
	})

	t.Run("对方用户不存在", func(t *testing.T) {
		svc := NewConnectionService(&fakeConnectionRepo{}, &fakeUserRepo{})

		_, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "ghost"})
		requireBizCode(t, err, codes.NotFound, consts.CodeUserNotFound)
	})

	t.Run("首次发起创建待处理请求", func(t *testing.T) {
		var created *model.UserConnection
		connRepo := &fakeConnectionRepo{
			createFn: func(ctx context.Context, c *model.UserConnection) error {
				created = c
				return nil
			},
		}
		svc := NewConnectionService(connRepo, peerRepo)

		resp, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "user-2"})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "user-1", created.SenderUuid)
		assert.Equal(t, "user-2", created.ReceiverUuid)
		assert.Equal(t, model.ConnectionPending, created.Status)

		assert.True(t, resp.IAmSender)
		assert.Equal(t, "user-2", resp.PeerUuid)
		assert.Equal(t, "Peer", resp.PeerName)
		assert.Equal(t, model.ConnectionPending, resp.Status)
	})

	t.Run("已建立连接报错", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getBetweenFn: func(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: "conn-1", SenderUuid: peerUuid, ReceiverUuid: userUuid, Status: model.ConnectionAccepted}, nil
			},
		}
		svc := NewConnectionService(connRepo, peerRepo)

		_, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "user-2"})
		requireBizCode(t, err, codes.AlreadyExists, consts.CodeAlreadyConnected)
	})

	t.Run("请求已在途报错", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getBetweenFn: func(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: "conn-1", SenderUuid: userUuid, ReceiverUuid: peerUuid, Status: model.ConnectionPending}, nil
			},
		}
		svc := NewConnectionService(connRepo, peerRepo)

		_, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "user-2"})
		requireBizCode(t, err, codes.AlreadyExists, consts.CodeConnectionRequestSent)
	})

	t.Run("被拒绝后重发复用原行", func(t *testing.T) {
		var repointSender, repointReceiver string
		connRepo := &fakeConnectionRepo{
			getBetweenFn: func(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
				// 上次是对方发起后被拒，这次由 user-1 重新发起
				return &model.UserConnection{Uuid: "conn-1", SenderUuid: "user-2", ReceiverUuid: "user-1", Status: model.ConnectionRejected}, nil
			},
			repointFn: func(ctx context.Context, uuid, senderUuid, receiverUuid string) error {
				repointSender, repointReceiver = senderUuid, receiverUuid
				return nil
			},
		}
		svc := NewConnectionService(connRepo, peerRepo)

		resp, err := svc.SendRequest(withUserUUID("user-1"), &dto.SendConnectionRequest{UserUuid: "user-2"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", repointSender)
		assert.Equal(t, "user-2", repointReceiver)
		assert.True(t, resp.IAmSender)
		assert.Equal(t, model.ConnectionPending, resp.Status)
	})
}

func TestConnectionServiceResolvePending(t *testing.T) {
	initServiceTest()

	pendingConn := func(ctx context.Context, uuid string) (*model.UserConnection, error) {
		return &model.UserConnection{Uuid: uuid, SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionPending}, nil
	}

	t.Run("关系不存在", func(t *testing.T) {
		svc := NewConnectionService(&fakeConnectionRepo{}, &fakeUserRepo{})

		err := svc.Accept(withUserUUID("user-2"), "missing")
		requireBizCode(t, err, codes.NotFound, consts.CodeConnectionNotFound)
	})

	t.Run("非当事方视为不存在", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{getByUuidFn: pendingConn}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Accept(withUserUUID("user-9"), "conn-1")
		requireBizCode(t, err, codes.NotFound, consts.CodeConnectionNotFound)
	})

	t.Run("发起方不能处理自己的请求", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{getByUuidFn: pendingConn}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Accept(withUserUUID("user-1"), "conn-1")
		requireBizCode(t, err, codes.PermissionDenied, consts.CodeNotConnectionReceiver)
	})

	t.Run("非待处理状态不能处理", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: uuid, SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionAccepted}, nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Reject(withUserUUID("user-2"), "conn-1")
		requireBizCode(t, err, codes.FailedPrecondition, consts.CodeConnectionNotPending)
	})

	t.Run("接受推进为已接受", func(t *testing.T) {
		var gotStatus int8 = -1
		connRepo := &fakeConnectionRepo{
			getByUuidFn: pendingConn,
			updateStatusFn: func(ctx context.Context, uuid string, status int8) error {
				gotStatus = status
				return nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Accept(withUserUUID("user-2"), "conn-1")
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionAccepted, gotStatus)
	})

	t.Run("拒绝保留行", func(t *testing.T) {
		var gotStatus int8 = -1
		connRepo := &fakeConnectionRepo{
			getByUuidFn: pendingConn,
			updateStatusFn: func(ctx context.Context, uuid string, status int8) error {
				gotStatus = status
				return nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Reject(withUserUUID("user-2"), "conn-1")
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionRejected, gotStatus)
	})
}

func TestConnectionServiceRemove(t *testing.T) {
	initServiceTest()

	t.Run("双方任一方可删除", func(t *testing.T) {
		deleted := false
		connRepo := &fakeConnectionRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: uuid, SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionAccepted}, nil
			},
			deleteFn: func(ctx context.Context, uuid string) error {
				deleted = true
				return nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Remove(withUserUUID("user-1"), "conn-1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("非当事方不能删除", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: uuid, SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionAccepted}, nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		err := svc.Remove(withUserUUID("user-9"), "conn-1")
		requireBizCode(t, err, codes.NotFound, consts.CodeConnectionNotFound)
	})
}

func TestConnectionServiceListConnections(t *testing.T) {
	initServiceTest()

	t.Run("对方信息按viewer视角组装", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			listAcceptedFn: func(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
				return []*model.UserConnection{
					{Uuid: "conn-1", SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionAccepted},
					{Uuid: "conn-2", SenderUuid: "user-3", ReceiverUuid: "user-1", Status: model.ConnectionAccepted},
				}, nil
			},
		}
		userRepo := &fakeUserRepo{
			batchGetByUuidsFn: func(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error) {
				return map[string]*model.UserInfo{
					"user-2": {Uuid: "user-2", DisplayName: "Bob"},
					"user-3": {Uuid: "user-3", DisplayName: "Carol"},
				}, nil
			},
		}
		svc := NewConnectionService(connRepo, userRepo)

		resp, err := svc.ListConnections(withUserUUID("user-1"))
		require.NoError(t, err)
		require.Len(t, resp.Connections, 2)

		assert.Equal(t, "user-2", resp.Connections[0].PeerUuid)
		assert.Equal(t, "Bob", resp.Connections[0].PeerName)
		assert.True(t, resp.Connections[0].IAmSender)

		assert.Equal(t, "user-3", resp.Connections[1].PeerUuid)
		assert.Equal(t, "Carol", resp.Connections[1].PeerName)
		assert.False(t, resp.Connections[1].IAmSender)
	})
}

func TestConnectionServiceGetStatusWith(t *testing.T) {
	initServiceTest()

	t.Run("无关系返回未连接", func(t *testing.T) {
		svc := NewConnectionService(&fakeConnectionRepo{}, &fakeUserRepo{})

		resp, err := svc.GetStatusWith(withUserUUID("user-1"), "user-2")
		require.NoError(t, err)
		assert.False(t, resp.Connected)
		assert.Nil(t, resp.Connection)
	})

	t.Run("已接受返回已连接", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getBetweenFn: func(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: "conn-1", SenderUuid: "user-2", ReceiverUuid: "user-1", Status: model.ConnectionAccepted}, nil
			},
		}
		userRepo := &fakeUserRepo{
			getByUuidFn: func(ctx context.Context, uuid string) (*model.UserInfo, error) {
				return &model.UserInfo{Uuid: uuid, DisplayName: "Bob"}, nil
			},
		}
		svc := NewConnectionService(connRepo, userRepo)

		resp, err := svc.GetStatusWith(withUserUUID("user-1"), "user-2")
		require.NoError(t, err)
		assert.True(t, resp.Connected)
		require.NotNil(t, resp.Connection)
		assert.Equal(t, "user-2", resp.Connection.PeerUuid)
		assert.False(t, resp.Connection.IAmSender)
	})

	t.Run("待处理返回未连接但带详情", func(t *testing.T) {
		connRepo := &fakeConnectionRepo{
			getBetweenFn: func(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
				return &model.UserConnection{Uuid: "conn-1", SenderUuid: "user-1", ReceiverUuid: "user-2", Status: model.ConnectionPending}, nil
			},
		}
		svc := NewConnectionService(connRepo, &fakeUserRepo{})

		resp, err := svc.GetStatusWith(withUserUUID("user-1"), "user-2")
		require.NoError(t, err)
		assert.False(t, resp.Connected)
		require.NotNil(t, resp.Connection)
		assert.Equal(t, model.ConnectionPending, resp.Connection.Status)
	})
}
