package configwatcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

const watcherTestConfig = `server:
  port: "8080"
  mode: debug
analysis:
  top_n: 3
  collaborator_timeout: 30s
`

// 连续写入后去抖定时器必须重新触发，而不是卡死在排空上
func TestWatchConfigFiresAfterWrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(watcherTestConfig), 0o644))

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(cfgPath, nil, func(cfg interface{}) {
		if c, ok := cfg.(*config.Config); ok {
			select {
			case reloaded <- c:
			default:
			}
		}
	})

	// 等 watcher 注册完成后连续写入，模拟编辑器的多次保存
	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(cfgPath, []byte(watcherTestConfig), 0o644))
		time.Sleep(300 * time.Millisecond)
	}

	select {
	case cfg := <-reloaded:
		require.Equal(t, 3, cfg.Analysis.TopN)
	case <-time.After(3 * time.Second):
		t.Fatal("config reloader did not fire after file writes")
	}
}
