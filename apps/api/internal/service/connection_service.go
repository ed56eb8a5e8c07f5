package service

import (
	"context"
	"errors"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// connectionServiceImpl 旧版连接服务实现
type connectionServiceImpl struct {
	connectionRepo repository.IConnectionRepository
	userRepo       repository.IUserRepository
}

// NewConnectionService 创建连接服务实例
func NewConnectionService(
	connectionRepo repository.IConnectionRepository,
	userRepo repository.IUserRepository,
) ConnectionService {
	return &connectionServiceImpl{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
	}
}

// SendRequest 发起连接请求
// 同一对用户只有一条逻辑关系：已接受报错、待处理报错、
// 曾被拒绝则复用原行重置方向重新发起。
func (s *connectionServiceImpl) SendRequest(ctx context.Context, req *dto.SendConnectionRequest) (*dto.ConnectionInfo, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserUuid == userUuid {
		return nil, bizError(codes.InvalidArgument, consts.CodeCannotConnectSelf)
	}

	peer, err := s.userRepo.GetByUuid(ctx, req.UserUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "查询对方用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	existing, err := s.connectionRepo.GetBetween(ctx, userUuid, req.UserUuid)
	if err != nil {
		logger.Error(ctx, "查询连接关系失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	switch {
	case existing == nil:
		conn := &model.UserConnection{
			Uuid:         util.GenEntityID(),
			SenderUuid:   userUuid,
			ReceiverUuid: req.UserUuid,
			Status:       model.ConnectionPending,
		}
		if cerr := s.connectionRepo.Create(ctx, conn); cerr != nil {
			if errors.Is(cerr, repository.ErrDuplicateKey) {
				return nil, bizError(codes.AlreadyExists, consts.CodeConnectionRequestSent)
			}
			logger.Error(ctx, "创建连接请求失败", logger.ErrorField("error", cerr))
			return nil, errInternal()
		}
		return modelToConnectionInfo(conn, userUuid, peer), nil

	case existing.Status == model.ConnectionAccepted:
		return nil, bizError(codes.AlreadyExists, consts.CodeAlreadyConnected)

	case existing.Status == model.ConnectionPending:
		return nil, bizError(codes.AlreadyExists, consts.CodeConnectionRequestSent)

	default:
		// 被拒绝后重新发起：复用原行，方向指向本次发起者
		if rerr := s.connectionRepo.Repoint(ctx, existing.Uuid, userUuid, req.UserUuid); rerr != nil {
			logger.Error(ctx, "重新发起连接失败", logger.ErrorField("error", rerr))
			return nil, errInternal()
		}
		existing.SenderUuid = userUuid
		existing.ReceiverUuid = req.UserUuid
		existing.Status = model.ConnectionPending
		return modelToConnectionInfo(existing, userUuid, peer), nil
	}
}

// Accept 接受连接请求（仅接收方，且必须处于待处理状态）
func (s *connectionServiceImpl) Accept(ctx context.Context, connUuid string) error {
	return s.resolvePending(ctx, connUuid, model.ConnectionAccepted)
}

// Reject 拒绝连接请求（仅接收方；保留行，发起方可再次发起）
func (s *connectionServiceImpl) Reject(ctx context.Context, connUuid string) error {
	return s.resolvePending(ctx, connUuid, model.ConnectionRejected)
}

// resolvePending 处理待处理请求
func (s *connectionServiceImpl) resolvePending(ctx context.Context, connUuid string, status int8) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	conn, err := s.getConnectionOrBizError(ctx, connUuid, userUuid)
	if err != nil {
		return err
	}
	if conn.ReceiverUuid != userUuid {
		return bizError(codes.PermissionDenied, consts.CodeNotConnectionReceiver)
	}
	if conn.Status != model.ConnectionPending {
		return bizError(codes.FailedPrecondition, consts.CodeConnectionNotPending)
	}

	if err := s.connectionRepo.UpdateStatus(ctx, connUuid, status); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeConnectionNotFound)
		}
		logger.Error(ctx, "更新连接状态失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// Remove 删除连接（双方任一方）
func (s *connectionServiceImpl) Remove(ctx context.Context, connUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.getConnectionOrBizError(ctx, connUuid, userUuid); err != nil {
		return err
	}

	if err := s.connectionRepo.Delete(ctx, connUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeConnectionNotFound)
		}
		logger.Error(ctx, "删除连接失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// ListConnections 已建立的连接列表
func (s *connectionServiceImpl) ListConnections(ctx context.Context) (*dto.ConnectionListResponse, error) {
	return s.listByKind(ctx, func(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
		return s.connectionRepo.ListAccepted(ctx, userUuid)
	})
}

// ListPendingReceived 收到的待处理请求
func (s *connectionServiceImpl) ListPendingReceived(ctx context.Context) (*dto.ConnectionListResponse, error) {
	return s.listByKind(ctx, func(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
		return s.connectionRepo.ListPendingReceived(ctx, userUuid)
	})
}

// ListPendingSent 发出的待处理请求
func (s *connectionServiceImpl) ListPendingSent(ctx context.Context) (*dto.ConnectionListResponse, error) {
	return s.listByKind(ctx, func(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
		return s.connectionRepo.ListPendingSent(ctx, userUuid)
	})
}

// GetStatusWith 与某用户的关系状态
func (s *connectionServiceImpl) GetStatusWith(ctx context.Context, peerUuid string) (*dto.ConnectionStatusResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := s.connectionRepo.GetBetween(ctx, userUuid, peerUuid)
	if err != nil {
		logger.Error(ctx, "查询连接关系失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	if conn == nil {
		return &dto.ConnectionStatusResponse{Connected: false}, nil
	}

	peer, _ := s.userRepo.GetByUuid(ctx, peerUuid)
	return &dto.ConnectionStatusResponse{
		Connected:  conn.Status == model.ConnectionAccepted,
		Connection: modelToConnectionInfo(conn, userUuid, peer),
	}, nil
}

// listByKind 连接列表的公共组装路径
func (s *connectionServiceImpl) listByKind(
	ctx context.Context,
	fetch func(ctx context.Context, userUuid string) ([]*model.UserConnection, error),
) (*dto.ConnectionListResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := fetch(ctx, userUuid)
	if err != nil {
		logger.Error(ctx, "查询连接列表失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	peerUuids := make([]string, 0, len(conns))
	for _, c := range conns {
		if c.SenderUuid == userUuid {
			peerUuids = append(peerUuids, c.ReceiverUuid)
		} else {
			peerUuids = append(peerUuids, c.SenderUuid)
		}
	}
	peers, err := s.userRepo.BatchGetByUuids(ctx, peerUuids)
	if err != nil {
		logger.Error(ctx, "批量查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items := make([]*dto.ConnectionInfo, 0, len(conns))
	for _, c := range conns {
		peerUuid := c.SenderUuid
		if c.SenderUuid == userUuid {
			peerUuid = c.ReceiverUuid
		}
		items = append(items, modelToConnectionInfo(c, userUuid, peers[peerUuid]))
	}
	return &dto.ConnectionListResponse{Connections: items}, nil
}

// getConnectionOrBizError 按关系 uuid 读取（当前用户必须是当事一方，否则视为不存在）
func (s *connectionServiceImpl) getConnectionOrBizError(ctx context.Context, connUuid, userUuid string) (*model.UserConnection, error) {
	conn, err := s.connectionRepo.GetByUuid(ctx, connUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeConnectionNotFound)
		}
		logger.Error(ctx, "查询连接关系失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	if conn.SenderUuid != userUuid && conn.ReceiverUuid != userUuid {
		return nil, bizError(codes.NotFound, consts.CodeConnectionNotFound)
	}
	return conn, nil
}
