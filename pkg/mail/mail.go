package mail

import (
	"context"
	"fmt"
	"time"

	"PulseServer/config"
	"PulseServer/pkg/logger"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// Mailer SMTP 发信封装。
// 外部 SMTP 服务不稳定时由熔断器兜底，避免邀请请求被慢调用拖垮。
type Mailer struct {
	cfg     config.MailConfig
	dialer  *gomail.Dialer
	breaker *gobreaker.CircuitBreaker
}

// New 创建 Mailer。cfg.Enabled 为 false 时所有发送都是空操作，
// 本地开发和测试环境不需要真实 SMTP。
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 3,                // 半开状态放行的试探请求数
			Interval:    60 * time.Second, // 计数窗口
			Timeout:     30 * time.Second, // 熔断后多久进入半开
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn(context.Background(), "SMTP 熔断器状态变更",
					logger.String("name", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		}),
	}
}

// Enabled 是否启用了真实发信。
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Enabled
}

// SendGroupInvite 发送小组邀请通知邮件。
func (m *Mailer) SendGroupInvite(ctx context.Context, to, inviterName, groupName string) error {
	if !m.Enabled() {
		return nil
	}

	_, err := m.breaker.Execute(func() (interface{}, error) {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.cfg.From)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", fmt.Sprintf("%s 邀请你加入小组「%s」", inviterName, groupName))
		msg.SetBody("text/plain", fmt.Sprintf(
			"%s 邀请你加入小组「%s」，登录后在「待处理邀请」中接受或拒绝。", inviterName, groupName))
		return nil, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		logger.Error(ctx, "邀请邮件发送失败",
			logger.String("to", to),
			logger.String("group_name", groupName),
			logger.ErrorField("error", err),
		)
		return err
	}

	logger.Info(ctx, "邀请邮件发送成功",
		logger.String("to", to),
		logger.String("group_name", groupName),
	)
	return nil
}
