package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONArrayStripsFences(t *testing.T) {
	content := "以下是任务清单：\n```json\n[{\"taskId\":\"t1\"}]\n```\n"
	assert.Equal(t, `[{"taskId":"t1"}]`, extractJSONArray(content))
}

func TestExtractJSONArrayPassthrough(t *testing.T) {
	assert.Equal(t, `[1,2]`, extractJSONArray(`[1,2]`))
	// nothing to strip, return unchanged
	assert.Equal(t, "no array here", extractJSONArray("no array here"))
}

func TestExtractJSONObjectStripsFences(t *testing.T) {
	content := "```json\n{\"background\":\"软件工程师\"}\n```"
	assert.Equal(t, `{"background":"软件工程师"}`, extractJSONObject(content))
}
