// Package fetcher downloads the audio track of a media URL with yt-dlp.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/metadata"
)

const (
	defaultFormat       = "bestaudio/best"
	defaultAudioFormat  = "mp3"
	defaultAudioQuality = "192K"
	defaultRetries      = 3
	defaultRetryDelay   = 2 * time.Second
	outputTemplate      = "%(title)s.%(ext)s"
)

// printTemplate is emitted once the final file is in place. Every field is JSON
// encoded so titles with tabs or newlines survive the split.
var printTemplate = "after_move:" + strings.Join([]string{
	"%(filepath)j",
	"%(id)j",
	"%(title)j",
	"%(uploader)j",
	"%(tags)j",
	"%(description)j",
	"%(thumbnail)j",
}, "\t")

// Request is one invocation of the extraction tool.
type Request struct {
	URL            string
	OutputTemplate string
	Format         string
	AudioFormat    string
	AudioQuality   string
	CookieFile     string
	PrintTemplate  string
}

// Runner executes the extraction tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, req Request) (string, error)
}

// Options configures a Fetcher. Zero values use the defaults.
type Options struct {
	Format       string
	AudioFormat  string
	AudioQuality string
	CookieFile   string
	Retries      int
	RetryDelay   time.Duration
	// AttemptTimeout bounds a single run of the tool.
	AttemptTimeout time.Duration
	Runner         Runner
	Logger         bot.Logger
}

// Download is a produced audio file. The caller owns WorkDir and must call Cleanup.
type Download struct {
	FilePath     string
	WorkDir      string
	ID           string
	ThumbnailURL string
	Info         metadata.RawInfo
}

// Cleanup removes the audio file and its working directory.
func (d *Download) Cleanup() error {
	if d == nil {
		return nil
	}
	var firstErr error
	if d.FilePath != "" {
		if err := os.Remove(d.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			firstErr = err
		}
	}
	if d.WorkDir != "" {
		if err := os.RemoveAll(d.WorkDir); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Fetcher downloads audio with bounded retries.
type Fetcher struct {
	opts   Options
	runner Runner
	logger bot.Logger
}

// New creates a Fetcher. Without a Runner it drives the yt-dlp binary.
func New(opts Options) *Fetcher {
	if opts.Format == "" {
		opts.Format = defaultFormat
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = defaultAudioFormat
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = defaultAudioQuality
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewYtDlpRunner("")
	}
	return &Fetcher{opts: opts, runner: runner, logger: opts.Logger}
}

// Fetch downloads url into a fresh directory under dir. Every failure, including a
// panic in the runner, comes back as an error wrapping bot.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) (dl *Download, err error) {
	var workDir string
	defer func() {
		if r := recover(); r != nil {
			if workDir != "" {
				_ = os.RemoveAll(workDir)
			}
			dl = nil
			err = fmt.Errorf("%w: panic: %v", bot.ErrFetchFailed, r)
		}
	}()

	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty url", bot.ErrFetchFailed)
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: scratch dir: %w", bot.ErrFetchFailed, err)
	}
	workDir, err = os.MkdirTemp(dir, "fetch-")
	if err != nil {
		return nil, fmt.Errorf("%w: work dir: %w", bot.ErrFetchFailed, err)
	}

	req := Request{
		URL:            url,
		OutputTemplate: filepath.Join(workDir, outputTemplate),
		Format:         f.opts.Format,
		AudioFormat:    f.opts.AudioFormat,
		AudioQuality:   f.opts.AudioQuality,
		CookieFile:     f.cookieFile(),
		PrintTemplate:  printTemplate,
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.Retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			lastErr = ctxErr
			break
		}

		dl, lastErr = f.attempt(ctx, req)
		if lastErr == nil {
			dl.WorkDir = workDir
			return dl, nil
		}
		if f.logger != nil {
			f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt, "error", lastErr)
		}

		if attempt == f.opts.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = os.RemoveAll(workDir)
			return nil, fmt.Errorf("%w: %s: %w", bot.ErrFetchFailed, url, ctx.Err())
		case <-time.After(f.opts.RetryDelay):
		}
	}

	_ = os.RemoveAll(workDir)
	return nil, fmt.Errorf("%w: %s: %w", bot.ErrFetchFailed, url, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, req Request) (*Download, error) {
	if f.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.AttemptTimeout)
		defer cancel()
	}

	stdout, err := f.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	dl, err := parseOutput(stdout)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dl.FilePath); err != nil {
		return nil, fmt.Errorf("produced file missing: %w", err)
	}
	return dl, nil
}

func (f *Fetcher) cookieFile() string {
	path := strings.TrimSpace(f.opts.CookieFile)
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

// parseOutput reads the last after_move line.
func parseOutput(stdout string) (*Download, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		fields := strings.Split(strings.TrimRight(lines[i], "\r"), "\t")
		if len(fields) < 7 {
			continue
		}
		path := jsonString(fields[0])
		if path == "" {
			continue
		}
		return &Download{
			FilePath:     path,
			ID:           jsonString(fields[1]),
			ThumbnailURL: jsonString(fields[6]),
			Info: metadata.RawInfo{
				Title:       jsonString(fields[2]),
				Uploader:    jsonString(fields[3]),
				Tags:        jsonStrings(fields[4]),
				Description: jsonString(fields[5]),
			},
		}, nil
	}
	return nil, errors.New("no output file reported")
}

// jsonString decodes a %(field)j value. yt-dlp prints NA or null for missing fields.
func jsonString(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "NA" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}

func jsonStrings(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "NA" || raw == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	return nil
}
