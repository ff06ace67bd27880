package id3

import (
	"strings"

	"github.com/Sorrow446/go-mp4tag"
	"github.com/liuran001/tunebot/bot/metadata"
)

func (s *ID3Service) tagM4a(audioPath string, meta metadata.Metadata, coverPath string) error {
	mp4, err := mp4tag.Open(audioPath)
	if err != nil {
		return err
	}
	defer mp4.Close()

	return mp4.Write(m4aTags(meta, s.readCover(coverPath, "m4a")), []string{})
}

func m4aTags(meta metadata.Metadata, artwork []byte) *mp4tag.MP4Tags {
	tags := &mp4tag.MP4Tags{
		Title:       meta.Title,
		Artist:      meta.Artist,
		CustomGenre: meta.Genre,
	}
	if meta.HasFeaturedArtist {
		tags.Comment = "featuring=yes"
	}
	if len(artwork) > 0 {
		format := mp4tag.ImageTypeJPEG
		if strings.Contains(coverMime(artwork), "png") {
			format = mp4tag.ImageTypePNG
		}
		tags.Pictures = []*mp4tag.MP4Picture{{Format: format, Data: artwork}}
	}
	return tags
}
