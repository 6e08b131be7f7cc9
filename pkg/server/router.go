// Package server 提供运维用 HTTP Server
// 只暴露健康检查、指标和只读状态，不提供任何管理接口
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KodaTao/ChannelRelay/pkg/config"
	"github.com/KodaTao/ChannelRelay/pkg/observability"
	"github.com/KodaTao/ChannelRelay/pkg/relay"
)

// Server 运维 HTTP 服务器
type Server struct {
	engine  *gin.Engine
	config  *ServerConfig
	store   *config.Store
	stats   func() relay.Stats
	started time.Time
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string
	Port int
	Mode string // debug, release, test
}

// NewServer 创建运维 HTTP 服务器
func NewServer(store *config.Store, stats func() relay.Stats, cfg *ServerConfig) *Server {
	// 设置 Gin 模式
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()

	// 添加中间件
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware())

	server := &Server{
		engine:  engine,
		config:  cfg,
		store:   store,
		stats:   stats,
		started: time.Now(),
	}

	// 注册路由
	server.setupRoutes()

	return server
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 健康检查
	s.engine.GET("/health", s.healthCheck)

	// Prometheus 指标
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1（只读）
	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/status", s.status)
	}
}

// Run 启动服务器
func (s *Server) Run() error {
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	observability.Info("Starting ops HTTP server", "address", addr)
	return s.engine.Run(addr)
}

// GetEngine 获取 Gin 引擎（用于测试）
func (s *Server) GetEngine() *gin.Engine {
	return s.engine
}

// 健康检查
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// 只读状态：运行时长、计数快照、来源频道数量
func (s *Server) status(c *gin.Context) {
	snapshot := s.stats()
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds":  int64(time.Since(s.started).Seconds()),
		"target_channel":  s.store.TargetChannel(),
		"source_channels": len(s.store.Sources()),
		"stats":           snapshot,
	})
}

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		observability.Info("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
		)
	}
}
