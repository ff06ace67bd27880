package metadata

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		info RawInfo
		want Metadata
	}{
		{
			name: "artist dash title with featuring",
			info: RawInfo{Title: "Wizkid - Essence (feat. Tems)", Uploader: "WizkidVEVO", Tags: []string{"afrobeats"}},
			want: Metadata{Artist: "Wizkid", Title: "Essence", Genre: "afrobeats", HasFeaturedArtist: true},
		},
		{
			name: "no dash uses uploader",
			info: RawInfo{Title: "Shape of You", Uploader: "Ed Sheeran"},
			want: Metadata{Artist: "Ed Sheeran", Title: "Shape of You", Genre: UnknownGenre},
		},
		{
			name: "splits on first dash only",
			info: RawInfo{Title: "Jay-Z - Empire State of Mind"},
			want: Metadata{Artist: "Jay", Title: "Z - Empire State of Mind", Genre: UnknownGenre},
		},
		{
			name: "genre keeps tag case and first match wins",
			info: RawInfo{Title: "A - B", Tags: []string{"live", "RnB", "pop"}},
			want: Metadata{Artist: "A", Title: "B", Genre: "RnB"},
		},
		{
			name: "featuring found in description",
			info: RawInfo{Title: "Burna Boy - Last Last", Description: "Official video FT. nobody"},
			want: Metadata{Artist: "Burna Boy", Title: "Last Last", Genre: UnknownGenre, HasFeaturedArtist: true},
		},
		{
			name: "parenthesis cut applies to song part",
			info: RawInfo{Title: "Tayc - N'y pense plus (Clip officiel)"},
			want: Metadata{Artist: "Tayc", Title: "N'y pense plus", Genre: UnknownGenre},
		},
		{
			name: "empty info",
			info: RawInfo{},
			want: Metadata{Genre: UnknownGenre},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.info)
			if got != tt.want {
				t.Fatalf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
