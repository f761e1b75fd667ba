package download

import (
	"testing"

	"retrocat/models"
)

func TestAssetFilename(t *testing.T) {
	tests := []struct {
		name string
		game models.Game
		want string
	}{
		{
			name: "simple title",
			game: models.Game{Title: "Star Courier", AssetURL: "https://www.retrosium.org/dl/101.zip"},
			want: "Star_Courier.zip",
		},
		{
			name: "punctuation stripped",
			game: models.Game{Title: "Moon Patrol II: The Return!", AssetURL: "https://www.retrosium.org/dl/102.7z"},
			want: "Moon_Patrol_II_The_Return.7z",
		},
		{
			name: "no extension on asset URL",
			game: models.Game{Title: "Cave Runner", AssetURL: "https://www.retrosium.org/dl/103"},
			want: "Cave_Runner",
		},
		{
			name: "unsanitizable title falls back to id",
			game: models.Game{ID: 7, Title: "???", AssetURL: "https://www.retrosium.org/dl/104.zip"},
			want: "game_7.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assetFilename(tt.game); got != tt.want {
				t.Errorf("assetFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
