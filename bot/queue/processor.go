package queue

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/fetcher"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/link"
	"github.com/liuran001/tunebot/bot/metadata"
	"github.com/liuran001/tunebot/bot/metrics"
	"github.com/liuran001/tunebot/bot/tracker"
)

// Notice lifetimes.
const (
	SuccessDelay     = 5 * time.Second
	StatusDelay      = 5 * time.Second
	UnsupportedDelay = 5 * time.Second
	FailureDelay     = 10 * time.Second
)

// Fetcher produces an audio file for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) (*fetcher.Download, error)
}

// Tagger writes metadata into a produced file.
type Tagger interface {
	Tag(audioPath string, meta metadata.Metadata, coverPath string) error
}

// CoverSource turns a thumbnail URL into a local cover image inside dir.
type CoverSource interface {
	Prepare(ctx context.Context, url, dir string) (string, error)
}

// LanguageResolver picks the language of a user's notices.
type LanguageResolver interface {
	Language(ctx context.Context, userID int64, clientCode string) string
}

// Processor drains user queues. Run is started once per StartedNewProcessor.
type Processor struct {
	Queue      *Queue
	Transport  bot.Transport
	Tracker    *tracker.Tracker
	Fetcher    Fetcher
	Pool       bot.WorkerPool
	Tagger     Tagger
	Covers     CoverSource
	Repo       bot.DeliveryRepository
	Catalog    *i18n.Catalog
	Languages  LanguageResolver
	Metrics    *metrics.Metrics
	Logger     bot.Logger
	ScratchDir string
}

// Run handles the user's entries in order until the queue is empty.
func (p *Processor) Run(ctx context.Context, userID int64) {
	p.Metrics.ProcessorStarted()
	defer p.Metrics.ProcessorStopped()

	// last handled entry of this run, for the final notice
	var (
		last    Entry
		handled bool
	)
	for {
		if ctx.Err() != nil {
			p.Queue.Abandon(userID)
			return
		}

		entry, ok := p.Queue.Head(userID)
		if !ok {
			if p.Queue.Finish(userID) {
				if handled {
					p.notifyQueueEmpty(ctx, userID, last)
				}
				return
			}
			continue
		}

		last, handled = entry, true
		p.handle(ctx, userID, entry)
		p.Queue.Pop(userID, entry.ID)

		if remaining := p.Queue.Len(userID); remaining > 0 {
			lang := p.language(ctx, userID, entry)
			p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.QueueStatus, "count", remaining), StatusDelay)
		}
	}
}

// notifyQueueEmpty tells the chat of the last handled entry that the queue drained.
func (p *Processor) notifyQueueEmpty(ctx context.Context, userID int64, last Entry) {
	lang := p.language(ctx, userID, last)
	p.Tracker.Notify(ctx, userID, last.ChatID, p.Catalog.T(lang, i18n.QueueEmpty), 0)
}

// handle processes a single entry. Nothing it does may stop the loop.
func (p *Processor) handle(ctx context.Context, userID int64, entry Entry) {
	defer func() {
		if r := recover(); r != nil {
			p.Metrics.RecordDownload(metrics.ResultPanic)
			if p.Logger != nil {
				p.Logger.Error("queue entry panicked", "user_id", userID, "url", entry.URL, "panic", r)
			}
		}
	}()

	lang := p.language(ctx, userID, entry)
	title := entry.DisplayTitle()

	if !link.IsSupportedMediaURL(entry.URL) {
		p.Metrics.RecordDownload(metrics.ResultUnsupported)
		if p.Logger != nil {
			p.Logger.Info("dropping unsupported link", "user_id", userID, "url", entry.URL, "error", bot.ErrUnsupportedLink)
		}
		p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.LinkUnsupported), UnsupportedDelay)
		return
	}

	if p.deliverCached(ctx, userID, entry) {
		p.Metrics.RecordDownload(metrics.ResultCached)
		p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.DownloadSuccess, "title", title), SuccessDelay)
		return
	}

	noticeID := p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.Downloading, "title", title), 0)
	defer func() {
		if noticeID != 0 && tracker.BestEffortDelete(ctx, p.Transport, entry.ChatID, noticeID) {
			p.Tracker.Untrack(userID, entry.ChatID, noticeID)
		}
	}()

	err := p.process(ctx, userID, entry)
	switch {
	case err == nil:
		p.Metrics.RecordDownload(metrics.ResultSuccess)
		p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.DownloadSuccess, "title", title), SuccessDelay)
	case errors.Is(err, bot.ErrDeliveryFailed):
		p.Metrics.RecordDownload(metrics.ResultSendFailed)
		p.logFailure(userID, entry, err)
		p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.SendError, "title", title), FailureDelay)
	default:
		p.Metrics.RecordDownload(metrics.ResultFetchFailed)
		p.logFailure(userID, entry, err)
		p.Tracker.Notify(ctx, userID, entry.ChatID, p.Catalog.T(lang, i18n.DownloadFailed, "title", title), FailureDelay)
	}
}

func (p *Processor) logFailure(userID int64, entry Entry, err error) {
	if p.Logger != nil {
		p.Logger.Warn("queue entry failed", "user_id", userID, "url", entry.URL, "error", err)
	}
}

// process fetches, tags and sends one entry. The produced files are always removed.
func (p *Processor) process(ctx context.Context, userID int64, entry Entry) error {
	start := time.Now()
	dl, err := p.fetch(ctx, entry.URL)
	p.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return bot.NewFetchError(userID, entry.URL, err)
	}
	defer func() {
		if err := dl.Cleanup(); err != nil && p.Logger != nil {
			p.Logger.Warn("remove downloaded file failed", "path", dl.FilePath, "error", err)
		}
	}()

	meta := metadata.Extract(dl.Info)
	coverPath := p.prepareCover(ctx, dl)
	if p.Tagger != nil {
		if err := p.Tagger.Tag(dl.FilePath, meta, coverPath); err != nil && p.Logger != nil {
			p.Logger.Warn("write tags failed", "path", dl.FilePath, "error", err)
		}
	}

	audio := &bot.Audio{
		FilePath:  dl.FilePath,
		Title:     meta.Title,
		Performer: meta.Artist,
		ThumbPath: coverPath,
	}
	fileID, err := p.Transport.SendAudio(ctx, entry.ChatID, audio)
	if err != nil {
		return bot.NewDeliveryError(userID, entry.URL, err)
	}
	p.recordDelivery(ctx, userID, entry, meta, fileID, dl.FilePath)
	return nil
}

// fetch runs the download on the worker pool. A result that arrives after ctx
// ended is cleaned up by the worker itself.
func (p *Processor) fetch(ctx context.Context, url string) (*fetcher.Download, error) {
	if p.Pool == nil {
		return p.Fetcher.Fetch(ctx, url, p.ScratchDir)
	}

	var (
		mu        sync.Mutex
		result    *fetcher.Download
		abandoned bool
	)
	err := p.Pool.SubmitWaitContext(ctx, func() error {
		dl, err := p.Fetcher.Fetch(ctx, url, p.ScratchDir)
		mu.Lock()
		defer mu.Unlock()
		if abandoned {
			_ = dl.Cleanup()
			return err
		}
		result = dl
		return err
	})

	mu.Lock()
	abandoned = true
	dl := result
	mu.Unlock()

	if err != nil {
		_ = dl.Cleanup()
		return nil, err
	}
	return dl, nil
}

func (p *Processor) prepareCover(ctx context.Context, dl *fetcher.Download) string {
	if p.Covers == nil || dl.ThumbnailURL == "" {
		return ""
	}
	path, err := p.Covers.Prepare(ctx, dl.ThumbnailURL, dl.WorkDir)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Debug("prepare cover failed", "url", dl.ThumbnailURL, "error", err)
		}
		return ""
	}
	return path
}

func (p *Processor) deliverCached(ctx context.Context, userID int64, entry Entry) bool {
	if p.Repo == nil {
		return false
	}
	cached, err := p.Repo.FindByURL(ctx, entry.URL)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Debug("delivery cache lookup failed", "url", entry.URL, "error", err)
		}
		return false
	}
	if cached == nil || cached.FileID == "" {
		return false
	}

	audio := &bot.Audio{FileID: cached.FileID, Title: cached.Title, Performer: cached.Artist}
	if _, err := p.Transport.SendAudio(ctx, entry.ChatID, audio); err != nil {
		if p.Logger != nil {
			p.Logger.Debug("resend cached audio failed", "url", entry.URL, "error", err)
		}
		return false
	}
	p.incrementSendCount(ctx)
	return true
}

func (p *Processor) recordDelivery(ctx context.Context, userID int64, entry Entry, meta metadata.Metadata, fileID, path string) {
	if p.Repo == nil || fileID == "" {
		return
	}
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	delivery := &bot.Delivery{
		URL:        entry.URL,
		Platform:   entry.Platform,
		Title:      meta.Title,
		Artist:     meta.Artist,
		Genre:      meta.Genre,
		Featuring:  meta.HasFeaturedArtist,
		FileID:     fileID,
		FileSize:   size,
		FromUserID: userID,
		FromChatID: entry.ChatID,
	}
	if err := p.Repo.Create(ctx, delivery); err != nil && p.Logger != nil {
		p.Logger.Warn("save delivery failed", "url", entry.URL, "error", err)
	}
	p.incrementSendCount(ctx)
}

func (p *Processor) incrementSendCount(ctx context.Context) {
	if err := p.Repo.IncrementSendCount(ctx); err != nil && p.Logger != nil {
		p.Logger.Debug("increment send count failed", "error", err)
	}
}

func (p *Processor) language(ctx context.Context, userID int64, entry Entry) string {
	if p.Languages == nil {
		return p.Catalog.Fallback()
	}
	return p.Languages.Language(ctx, userID, entry.ClientLanguage)
}
