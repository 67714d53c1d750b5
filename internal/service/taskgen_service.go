package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/util"
)

// TaskGenerator 任务拆解协作方。输入画像、路径、已算出的技能差距与里程碑时间线，
// 产出带依赖关系的候选任务集
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, profile engine.Profile, path engine.Path, gaps []engine.SkillGap, milestones []engine.Milestone) ([]engine.RoadmapTask, error)
}

// TaskGenService 基于 chat-completions 接口的任务拆解实现

type TaskGenService struct {
	config config.AIConfig
	client *http.Client
}

func NewTaskGenService(cfg config.AIConfig) *TaskGenService {
	return &TaskGenService{
		config: cfg,
		client: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const taskGenSystemPrompt = "你是一个职业路径规划助手。根据给定的个人画像、目标路径、" +
	"技能差距和里程碑时间线，拆解出可执行的任务清单。优先覆盖影响度高的技能差距，" +
	"并使任务节奏与里程碑对齐。只输出一个 JSON 数组，不要输出任何其他文字。数组元素格式：\n" +
	`{"taskId":"唯一标识","description":"任务描述","estimatedHours":小时数,` +
	`"priority":"high|medium|low","category":"分类","dependencies":["前置任务ID"]}` + "\n" +
	"要求：estimatedHours 为正数；dependencies 只能引用本清单内的 taskId；不得出现循环依赖。"

// GenerateTasks 调用模型服务拆解任务，解析失败或返回非法任务时报错交由上层重试
func (s *TaskGenService) GenerateTasks(ctx context.Context, profile engine.Profile, path engine.Path, gaps []engine.SkillGap, milestones []engine.Milestone) ([]engine.RoadmapTask, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return nil, err
	}
	gapsJSON, err := json.Marshal(gaps)
	if err != nil {
		return nil, err
	}
	milestonesJSON, err := json.Marshal(milestones)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("个人画像：\n%s\n\n目标路径：\n%s\n\n技能差距：\n%s\n\n里程碑时间线：\n%s\n\n请拆解任务清单。",
		profileJSON, pathJSON, gapsJSON, milestonesJSON)

	content, err := s.chat(ctx, taskGenSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var tasks []engine.RoadmapTask
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &tasks); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	return tasks, nil
}

func (s *TaskGenService) chat(ctx context.Context, system, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", util.ErrCollaboratorTimeout
		}
		return "", fmt.Errorf("%w: %v", util.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", util.ErrCollaboratorUnavailable, resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrCollaboratorUnavailable, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", util.ErrCollaboratorUnavailable)
	}
	return result.Choices[0].Message.Content, nil
}

// extractJSONArray 剥离模型可能附带的 Markdown 代码栅栏或说明文字
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
