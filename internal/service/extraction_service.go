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

// ProfileExtractor 画像抽取协作方。把用户的自述文本结构化为画像草稿
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, text string) (engine.Profile, error)
}

// ExtractionService 基于 chat-completions 接口的画像抽取实现

type ExtractionService struct {
	config config.AIConfig
	client *http.Client
}

func NewExtractionService(cfg config.AIConfig) *ExtractionService {
	return &ExtractionService{
		config: cfg,
		client: &http.Client{},
	}
}

const extractionSystemPrompt = "你是一个信息抽取助手。从用户的自述中抽取个人画像，" +
	"只输出一个 JSON 对象，不要输出任何其他文字。格式：\n" +
	`{"background":"背景概述","skills":[{"name":"技能名","level":1到10,"yearsExperience":年限}],` +
	`"constraints":{"hoursPerWeek":每周可投入小时数,"financialResources":可用资金,"geographic":["地域约束"],"personal":["个人约束"]},` +
	`"goals":{"shortTerm":["短期目标"],"longTerm":["长期目标"],"priorities":["优先事项"]}}` + "\n" +
	"要求：level 为 1-10 的整数；自述未提及的字段留空或填 0，不要编造。"

// ExtractProfile 调用模型服务抽取画像草稿，抽取结果仍需用户确认后保存
func (s *ExtractionService) ExtractProfile(ctx context.Context, text string) (engine.Profile, error) {
	content, err := s.chat(ctx, extractionSystemPrompt, text)
	if err != nil {
		return engine.Profile{}, err
	}

	var profile engine.Profile
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &profile); err != nil {
		return engine.Profile{}, fmt.Errorf("parse extracted profile: %w", err)
	}
	return profile, nil
}

func (s *ExtractionService) chat(ctx context.Context, system, prompt string) (string, error) {
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

func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
