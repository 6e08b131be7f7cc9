package relay

import "errors"

var (
	// ErrTokenRequired Token 未配置
	ErrTokenRequired = errors.New("telegram bot token is required")

	// ErrTargetRequired 目标频道未配置
	ErrTargetRequired = errors.New("target channel is required")

	// ErrBotNotInitialized Bot 未初始化
	ErrBotNotInitialized = errors.New("telegram bot is not initialized")
)
