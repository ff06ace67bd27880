package id3

import (
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/liuran001/tunebot/bot/metadata"
)

const flacFeaturing = "FEATURING"

func (s *ID3Service) tagFlac(audioPath string, meta metadata.Metadata, coverPath string) error {
	parsed, err := flac.ParseFile(audioPath)
	if err != nil {
		return err
	}

	vorbis, index := existingVorbis(parsed)
	writeFlacBasicTags(vorbis, meta)
	block := vorbis.Marshal()
	if index >= 0 {
		parsed.Meta[index] = &block
	} else {
		parsed.Meta = append(parsed.Meta, &block)
	}

	s.writeFlacCover(parsed, coverPath)
	return parsed.Save(audioPath)
}

// existingVorbis returns the file's comment block without the fields this
// package writes, and its index in Meta (-1 when absent).
func existingVorbis(parsed *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int) {
	for i, block := range parsed.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		current, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return flacvorbis.New(), i
		}
		kept := current.Comments[:0]
		for _, comment := range current.Comments {
			if !ownedFlacField(comment) {
				kept = append(kept, comment)
			}
		}
		current.Comments = kept
		return current, i
	}
	return flacvorbis.New(), -1
}

func ownedFlacField(comment string) bool {
	key, _, _ := strings.Cut(comment, "=")
	switch strings.ToUpper(key) {
	case flacvorbis.FIELD_TITLE, flacvorbis.FIELD_ARTIST, flacvorbis.FIELD_GENRE, flacFeaturing:
		return true
	}
	return false
}

func writeFlacBasicTags(vorbis *flacvorbis.MetaDataBlockVorbisComment, meta metadata.Metadata) {
	if meta.Title != "" {
		_ = vorbis.Add(flacvorbis.FIELD_TITLE, meta.Title)
	}
	if meta.Artist != "" {
		_ = vorbis.Add(flacvorbis.FIELD_ARTIST, meta.Artist)
	}
	if meta.Genre != "" {
		_ = vorbis.Add(flacvorbis.FIELD_GENRE, meta.Genre)
	}
	if meta.HasFeaturedArtist {
		_ = vorbis.Add(flacFeaturing, "yes")
	}
}

// writeFlacCover replaces any embedded picture with the cover.
func (s *ID3Service) writeFlacCover(parsed *flac.File, coverPath string) {
	artwork := s.readCover(coverPath, "flac")
	if len(artwork) == 0 {
		return
	}
	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", artwork, coverMime(artwork))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to create flac picture", "error", err)
		}
		return
	}

	kept := parsed.Meta[:0]
	for _, block := range parsed.Meta {
		if block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	block := picture.Marshal()
	parsed.Meta = append(kept, &block)
}
