// Package planner 将规划 Oracle 返回的任意文本归一化为结构化任务草稿。
// 无论上游失败或返回何种畸形数据,归一化结果都保证非空。
package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TaskDraft 未持久化、未校验的候选任务
type TaskDraft struct {
	Title       string `json:"title"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Text        string `json:"text"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
}

// PlanKind 原始计划的形态标签
type PlanKind int

const (
	// KindAbsent 计划缺失或为空
	KindAbsent PlanKind = iota
	// KindDrafts 计划解析为结构化草稿序列
	KindDrafts
	// KindOpaque 计划为无法结构化的不透明文本
	KindOpaque
)

// RawPlan 规划 Oracle 输出的带标签联合
// 由 Normalize 穷举消费,避免散落的类型判断
type RawPlan struct {
	Kind   PlanKind
	Drafts []TaskDraft
	Opaque string
}

// Decode 将原始文本解码为 RawPlan
// 解码规则按序应用:JSON 数组→草稿序列(非对象元素包装为通用任务);
// JSON 对象→单元素序列;其余非空文本→不透明文本;空→缺失
func Decode(raw string) RawPlan {
	text := stripCodeFences(raw)
	if text == "" {
		return RawPlan{Kind: KindAbsent}
	}

	// JSON 数组
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elements); err == nil {
		drafts := make([]TaskDraft, 0, len(elements))
		for _, elem := range elements {
			drafts = append(drafts, decodeElement(elem))
		}
		return RawPlan{Kind: KindDrafts, Drafts: drafts}
	}

	// 单个 JSON 对象
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(text), &record); err == nil && record != nil {
		return RawPlan{Kind: KindDrafts, Drafts: []TaskDraft{draftFromRecord(record)}}
	}

	return RawPlan{Kind: KindOpaque, Opaque: text}
}

// decodeElement 解码数组中的单个元素
// 结构化记录原样保留,其余元素字符串化后包装为一个通用任务
func decodeElement(elem json.RawMessage) TaskDraft {
	var record map[string]interface{}
	if err := json.Unmarshal(elem, &record); err == nil && record != nil {
		return draftFromRecord(record)
	}
	return genericDraft(stringify(elem))
}

// draftFromRecord 从键值记录提取草稿字段
// 字段值不约束类型:规划 Oracle 偶尔输出数字优先级或日期对象,
// 非字符串值按紧凑 JSON 文本强转,保留记录其余字段的角色和描述
func draftFromRecord(record map[string]interface{}) TaskDraft {
	return TaskDraft{
		Title:       fieldString(record, "title"),
		Role:        fieldString(record, "role"),
		Description: fieldString(record, "description"),
		Text:        fieldString(record, "text"),
		Deadline:    fieldString(record, "deadline"),
		Priority:    fieldString(record, "priority"),
	}
}

// fieldString 以字符串形式读取记录字段
func fieldString(record map[string]interface{}, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}

// stringify 将 JSON 元素转为人类可读文本
// 字符串取其值,其余保留紧凑 JSON 形式
func stringify(elem json.RawMessage) string {
	var s string
	if err := json.Unmarshal(elem, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(elem))
}

// genericDraft 通用任务包装
func genericDraft(text string) TaskDraft {
	return TaskDraft{Title: "Task", Role: "General", Description: text}
}

// stripCodeFences 去掉 LLM 输出常见的 markdown 代码围栏
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	return text
}

// Normalize 将原始计划文本归一化为非空草稿序列
// 无法解析或为空时返回固定的三任务默认计划,
// 保证操作员永远不会面对一份空计划
func Normalize(raw, goal string) []TaskDraft {
	plan := Decode(raw)

	var drafts []TaskDraft
	switch plan.Kind {
	case KindDrafts:
		drafts = plan.Drafts
	case KindOpaque:
		drafts = []TaskDraft{genericDraft(plan.Opaque)}
	case KindAbsent:
		// 落入下方默认计划
	}

	if len(drafts) == 0 {
		return DefaultPlan(goal)
	}
	return drafts
}

// DefaultPlan 固定默认计划
func DefaultPlan(goal string) []TaskDraft {
	return []TaskDraft{
		{Title: "Define launch objectives", Role: "Product Manager", Description: fmt.Sprintf("Clarify goals for: %s", goal)},
		{Title: "Prepare marketing plan", Role: "Marketing", Description: "Channels, budget, timeline"},
		{Title: "Set up analytics", Role: "Data", Description: "Dashboards and tracking"},
	}
}

// ResolveRole 角色字段缺省
func (d TaskDraft) ResolveRole() string {
	if d.Role != "" {
		return d.Role
	}
	return "General"
}

// ResolveDescription 描述字段按 description → text → title → "Task" 依次回退
func (d TaskDraft) ResolveDescription() string {
	for _, candidate := range []string{d.Description, d.Text, d.Title} {
		if candidate != "" {
			return candidate
		}
	}
	return "Task"
}

// ResolvePriority 优先级字段缺省
func (d TaskDraft) ResolvePriority() string {
	if d.Priority != "" {
		return d.Priority
	}
	return "medium"
}

// ResolveDeadline 解析截止时间
// 接受 RFC 3339 或纯日期格式;解析失败静默丢弃,从不报错
func (d TaskDraft) ResolveDeadline() *time.Time {
	if d.Deadline == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, d.Deadline); err == nil {
			return &t
		}
	}
	return nil
}
