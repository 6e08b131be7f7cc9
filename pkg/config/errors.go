package config

import "errors"

var (
	// ErrNotFound 配置文件不存在
	ErrNotFound = errors.New("config file not found")

	// ErrMalformed 配置文件不是合法的 JSON
	ErrMalformed = errors.New("config file is not valid JSON")

	// ErrIncomplete 配置文件缺少必需字段
	ErrIncomplete = errors.New("config file is missing required fields")

	// ErrAlreadyExists 配置文件已存在（relay init 时使用）
	ErrAlreadyExists = errors.New("config file already exists")
)
