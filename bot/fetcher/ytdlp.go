package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// YtDlpRunner drives the yt-dlp binary through go-ytdlp.
type YtDlpRunner struct {
	executable string
}

// NewYtDlpRunner creates a runner. An empty executable resolves yt-dlp from PATH.
func NewYtDlpRunner(executable string) *YtDlpRunner {
	return &YtDlpRunner{executable: strings.TrimSpace(executable)}
}

// Run downloads req.URL, extracts audio and returns the printed template lines.
func (r *YtDlpRunner) Run(ctx context.Context, req Request) (string, error) {
	cmd := ytdlp.New().
		Format(req.Format).
		ExtractAudio().
		AudioFormat(req.AudioFormat).
		AudioQuality(req.AudioQuality).
		Output(req.OutputTemplate).
		NoPlaylist().
		NoOverwrites().
		NoWarnings().
		IgnoreConfig().
		Print(req.PrintTemplate).
		NoSimulate()

	if req.CookieFile != "" {
		cmd.Cookies(req.CookieFile)
	}
	if r.executable != "" {
		cmd.SetExecutable(r.executable)
	}

	res, err := cmd.Run(ctx, req.URL)
	if err != nil {
		if res != nil && strings.TrimSpace(res.Stderr) != "" {
			return "", fmt.Errorf("yt-dlp: %w: %s", err, lastLine(res.Stderr))
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	return res.Stdout, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
