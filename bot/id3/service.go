// Package id3 writes tags into delivered audio files and prepares their cover art.
package id3

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/metadata"
)

const maxCoverSize = 10 * 1024 * 1024

// ErrUnsupportedFormat is returned for containers other than MP3, FLAC and M4A.
var ErrUnsupportedFormat = errors.New("unsupported audio format for tags")

type ID3Service struct {
	logger botpkg.Logger
}

func NewID3Service(logger botpkg.Logger) *ID3Service {
	return &ID3Service{logger: logger}
}

// Tag writes title, artist, genre and the cover into the file at audioPath,
// choosing the tag format by extension. coverPath may be empty.
func (s *ID3Service) Tag(audioPath string, meta metadata.Metadata, coverPath string) error {
	switch strings.ToLower(filepath.Ext(audioPath)) {
	case ".mp3":
		return s.tagMp3(audioPath, meta, coverPath)
	case ".flac":
		return s.tagFlac(audioPath, meta, coverPath)
	case ".m4a", ".mp4":
		return s.tagM4a(audioPath, meta, coverPath)
	default:
		return ErrUnsupportedFormat
	}
}

func (s *ID3Service) tagMp3(audioPath string, meta metadata.Metadata, coverPath string) error {
	tag, err := id3v2.Open(audioPath, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	s.writeBasicTags(tag, meta)
	s.writeCover(tag, coverPath)

	return tag.Save()
}

func (s *ID3Service) writeBasicTags(tag *id3v2.Tag, meta metadata.Metadata) {
	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Genre != "" {
		tag.SetGenre(meta.Genre)
	}
	if meta.HasFeaturedArtist {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "featuring",
			Text:        "yes",
		})
	}
}

func (s *ID3Service) writeCover(tag *id3v2.Tag, coverPath string) {
	artwork := s.readCover(coverPath, "mp3")
	if len(artwork) == 0 {
		return
	}
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingISO,
		MimeType:    coverMime(artwork),
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     artwork,
	})
}

// readCover returns the cover bytes, or nil when there is none or it cannot be read.
func (s *ID3Service) readCover(coverPath, format string) []byte {
	if coverPath == "" {
		return nil
	}
	artwork, err := readCoverWithLimit(coverPath, maxCoverSize)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to read cover for "+format+" embedding", "error", err)
		}
		return nil
	}
	return artwork
}

func coverMime(artwork []byte) string {
	return http.DetectContentType(artwork[:min(len(artwork), 32)])
}

func readCoverWithLimit(path string, maxSize int64) ([]byte, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.Size() > maxSize {
		return nil, fmt.Errorf("cover image too large: %d bytes (max %d)", stat.Size(), maxSize)
	}
	return os.ReadFile(path)
}
