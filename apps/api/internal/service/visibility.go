package service

import (
	"context"
	"errors"

	"PulseServer/apps/api/internal/repository"
	"PulseServer/consts"
	"PulseServer/model"

	"google.golang.org/grpc/codes"
)

// visibilityChecker 可见性判定
// 规则只有三条：作者本人；评分分享到的某个小组的已接受成员；
// 与作者已建立连接（仅旧版无小组线程使用）。
// 判定永远直查 DB（成员与连接关系从不缓存），不存在失效窗口。
type visibilityChecker struct {
	membershipRepo repository.IMembershipRepository
	scoreRepo      repository.IScoreRepository
	connectionRepo repository.IConnectionRepository
}

func newVisibilityChecker(
	membershipRepo repository.IMembershipRepository,
	scoreRepo repository.IScoreRepository,
	connectionRepo repository.IConnectionRepository,
) *visibilityChecker {
	return &visibilityChecker{
		membershipRepo: membershipRepo,
		scoreRepo:      scoreRepo,
		connectionRepo: connectionRepo,
	}
}

// CanViewScore 宽松判定：viewer 是否可见该评分
// 用于单条评分读取，不可见时调用方把状态文字置空而不是报错。
func (v *visibilityChecker) CanViewScore(ctx context.Context, score *model.LifeScore, viewerUuid string) (bool, error) {
	if score.UserUuid == viewerUuid {
		return true, nil
	}

	groupUuids, err := v.scoreRepo.ListGroupUuidsForScore(ctx, score.Uuid)
	if err != nil {
		return false, err
	}
	for _, groupUuid := range groupUuids {
		ok, merr := v.membershipRepo.IsAcceptedMember(ctx, groupUuid, viewerUuid)
		if merr != nil {
			return false, merr
		}
		if ok {
			return true, nil
		}
	}

	// 旧版连接可见性兜底
	return v.connectionRepo.AreConnected(ctx, score.UserUuid, viewerUuid)
}

// CheckThreadAccess 严格判定：viewer 能否读写 (评分, 小组) 线程
// 小组线程要求 viewer 是作者或该小组已接受成员，且评分确实分享到了该小组；
// 旧版线程（groupUuid 为空）要求 viewer 是作者或与作者已建立连接。
// 不满足时返回业务错误而不是静默降级。
func (v *visibilityChecker) CheckThreadAccess(ctx context.Context, score *model.LifeScore, groupUuid, viewerUuid string) error {
	if groupUuid == "" {
		if score.UserUuid == viewerUuid {
			return nil
		}
		connected, err := v.connectionRepo.AreConnected(ctx, score.UserUuid, viewerUuid)
		if err != nil {
			return errInternal()
		}
		if !connected {
			return bizError(codes.PermissionDenied, consts.CodePermissionDeny)
		}
		return nil
	}

	if score.UserUuid != viewerUuid {
		ok, err := v.membershipRepo.IsAcceptedMember(ctx, groupUuid, viewerUuid)
		if err != nil {
			return errInternal()
		}
		if !ok {
			return bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
		}
	}

	shared, err := v.scoreRepo.IsSharedToGroup(ctx, score.Uuid, groupUuid)
	if err != nil {
		return errInternal()
	}
	if !shared {
		return bizError(codes.FailedPrecondition, consts.CodeScoreNotInGroup)
	}
	return nil
}

// getScoreOrBizError 读评分并把 NotFound 映射成业务错误
func (v *visibilityChecker) getScoreOrBizError(ctx context.Context, scoreUuid string) (*model.LifeScore, error) {
	score, err := v.scoreRepo.GetByUuid(ctx, scoreUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeScoreNotFound)
		}
		return nil, errInternal()
	}
	return score, nil
}
