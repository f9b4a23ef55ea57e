package model

// TaskStatus 任务状态
// 内部为封闭枚举,仅在接口边界序列化为字符串
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"   // 初始状态,等待操作员决策
	StatusApproved  TaskStatus = "approved"  // 瞬态,审批通过后、派发完成前
	StatusCompleted TaskStatus = "completed" // 终态,派发成功
	StatusFailed    TaskStatus = "failed"    // 终态,内容生成或 webhook 失败
	StatusRejected  TaskStatus = "rejected"  // 终态,操作员拒绝
)

// Valid 判断是否为合法状态值
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// IsTerminal 判断是否为终态
// 终态不再接受任何状态迁移
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// CanTransition 判断状态机是否允许 s → next 的迁移
// pending → approved | rejected; approved → completed | failed
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// String 实现 fmt.Stringer
func (s TaskStatus) String() string {
	return string(s)
}

// ExecutionStatus 执行日志状态
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailed  ExecutionStatus = "failed"
)
