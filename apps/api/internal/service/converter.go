package service

import (
	"strings"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/model"
)

// ==================== model -> DTO 组装 ====================

// modelToUserInfo 组装公开用户信息（不含邮箱/登录码）
func modelToUserInfo(u *model.UserInfo) *dto.UserInfo {
	if u == nil {
		return nil
	}
	return &dto.UserInfo{
		Uuid:        u.Uuid,
		DisplayName: u.DisplayName,
		AvatarUrl:   u.AvatarUrl,
		CreatedAt:   u.CreatedAt.Unix(),
	}
}

// modelToSelfUserInfo 组装本人用户信息（含邮箱/登录码）
func modelToSelfUserInfo(u *model.UserInfo) *dto.UserInfo {
	info := modelToUserInfo(u)
	if info == nil {
		return nil
	}
	if u.Email != nil {
		info.Email = *u.Email
	}
	if u.UniqueCode != nil {
		info.UniqueCode = *u.UniqueCode
	}
	if u.FeatureFlags != "" {
		info.FeatureFlags = strings.Split(u.FeatureFlags, ",")
	}
	return info
}

// modelToGroupInfo 组装小组信息；withCode 控制加入码是否下发（仅成员可见）
func modelToGroupInfo(g *model.GroupInfo, memberCount int64, withCode bool) *dto.GroupInfo {
	if g == nil {
		return nil
	}
	info := &dto.GroupInfo{
		Uuid:          g.Uuid,
		Name:          g.Name,
		CreatedByUuid: g.CreatedByUuid,
		MemberCount:   memberCount,
		CreatedAt:     g.CreatedAt.Unix(),
	}
	if withCode && g.InviteCode != nil {
		info.InviteCode = *g.InviteCode
	}
	return info
}

// modelToScoreInfo 组装评分信息；作者信息从批量查询结果补全
func modelToScoreInfo(s *model.LifeScore, author *model.UserInfo) *dto.ScoreInfo {
	if s == nil {
		return nil
	}
	info := &dto.ScoreInfo{
		Uuid:       s.Uuid,
		UserUuid:   s.UserUuid,
		Score:      s.Score,
		StatusText: s.StatusText,
		MediaUrl:   s.MediaUrl,
		CreatedAt:  s.CreatedAt.Unix(),
	}
	if author != nil {
		info.AuthorName = author.DisplayName
		info.AuthorAvatar = author.AvatarUrl
	}
	return info
}

// modelToCommentInfo 组装评论信息（表态汇总由调用方填）
func modelToCommentInfo(c *model.ScoreComment, author *model.UserInfo) *dto.CommentInfo {
	if c == nil {
		return nil
	}
	info := &dto.CommentInfo{
		Uuid:       c.Uuid,
		ScoreUuid:  c.LifeScoreUuid,
		GroupUuid:  c.GroupUuid,
		AuthorUuid: c.AuthorUuid,
		Content:    c.Content,
		MediaUrl:   c.MediaUrl,
		CreatedAt:  c.CreatedAt.Unix(),
	}
	if author != nil {
		info.AuthorName = author.DisplayName
		info.AuthorAvatar = author.AvatarUrl
	}
	return info
}

// modelToInviteInfo 组装邀请码信息
func modelToInviteInfo(i *model.InviteCode, now int64) *dto.InviteInfo {
	if i == nil {
		return nil
	}
	info := &dto.InviteInfo{
		Uuid:          i.Uuid,
		Code:          i.Code,
		CreatedByUuid: i.CreatedByUuid,
		CreatedAt:     i.CreatedAt.Unix(),
	}
	if i.ExpiresAt != nil {
		info.ExpiresAt = i.ExpiresAt.Unix()
		info.Expired = info.ExpiresAt <= now
	}
	return info
}

// modelToConnectionInfo 组装连接信息（peer 视角由 viewerUuid 决定）
func modelToConnectionInfo(c *model.UserConnection, viewerUuid string, peer *model.UserInfo) *dto.ConnectionInfo {
	if c == nil {
		return nil
	}
	info := &dto.ConnectionInfo{
		Uuid:      c.Uuid,
		Status:    c.Status,
		IAmSender: c.SenderUuid == viewerUuid,
		CreatedAt: c.CreatedAt.Unix(),
	}
	if info.IAmSender {
		info.PeerUuid = c.ReceiverUuid
	} else {
		info.PeerUuid = c.SenderUuid
	}
	if peer != nil {
		info.PeerName = peer.DisplayName
		info.PeerAvatar = peer.AvatarUrl
	}
	return info
}
