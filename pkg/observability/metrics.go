package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 转发与命令处理的 Prometheus 指标
// 由 pkg/server 通过 /metrics 暴露
var (
	// ForwardedTotal 成功转发的消息数
	ForwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "forwarded_total",
		Help:      "Total number of channel posts forwarded to the target channel.",
	})

	// ForwardErrorsTotal 转发失败的消息数
	ForwardErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "forward_errors_total",
		Help:      "Total number of forward calls rejected by the platform.",
	})

	// CommandsTotal 按命令名统计的管理命令数
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "commands_total",
		Help:      "Total number of admin commands dispatched, by command.",
	}, []string{"command"})

	// UnauthorizedTotal 非管理员发出管理命令的次数
	UnauthorizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "unauthorized_total",
		Help:      "Total number of management commands denied to non-admin users.",
	})
)
