package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrack_PrimaryArtist(t *testing.T) {
	tests := []struct {
		name     string
		artists  []string
		expected string
	}{
		{
			name:     "single artist",
			artists:  []string{"Ayra Starr"},
			expected: "Ayra Starr",
		},
		{
			name:     "first artist wins",
			artists:  []string{"Wizkid", "Tems"},
			expected: "Wizkid",
		},
		{
			name:     "no artists",
			artists:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk := &Track{ID: "test-id", Artists: tt.artists}
			assert.Equal(t, tt.expected, trk.PrimaryArtist())
		})
	}
}

func TestTrack_Label(t *testing.T) {
	trk := &Track{Name: "Gimme Dat", Artists: []string{"Ayra Starr", "Wizkid"}}
	assert.Equal(t, "Gimme Dat by Ayra Starr", trk.Label())

	bare := &Track{Name: "Untitled"}
	assert.Equal(t, "Untitled", bare.Label())
}

func TestTrack_SearchText(t *testing.T) {
	trk := &Track{Name: "Essence", Artists: []string{"Wizkid"}}
	assert.Equal(t, "Essence Wizkid", trk.SearchText())

	bare := &Track{Name: "Essence"}
	assert.Equal(t, "Essence", bare.SearchText())
}
