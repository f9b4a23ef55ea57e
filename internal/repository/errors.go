package repository

import "errors"

var (
	// ErrTaskNotFound 任务不存在
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidState 任务存在但当前状态不允许该迁移
	// 并发审批同一任务时,输掉竞争的一方会观察到此错误
	ErrInvalidState = errors.New("task is not in a valid state for this transition")
)
