package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoURL(t *testing.T) {
	assert.Equal(t, "https://qipedc.moet.gov.vn/videos/D0001B.mp4", VideoURL("D0001B"))
	assert.Equal(t, "https://qipedc.moet.gov.vn/videos/D0042.mp4", VideoURL("D0042"))
}

func TestListingURL(t *testing.T) {
	assert.Equal(t, "https://qipedc.moet.gov.vn/dictionary", ListingURL())
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "absolute ref passes through",
			base: "https://qipedc.moet.gov.vn/dictionary",
			ref:  "https://cdn.example.com/a.mp4",
			want: "https://cdn.example.com/a.mp4",
		},
		{
			name: "root relative ref",
			base: "https://qipedc.moet.gov.vn/dictionary",
			ref:  "/videos/D0001.mp4",
			want: "https://qipedc.moet.gov.vn/videos/D0001.mp4",
		},
		{
			name: "relative ref",
			base: "https://qipedc.moet.gov.vn/dictionary/",
			ref:  "thumb/D0001.png",
			want: "https://qipedc.moet.gov.vn/dictionary/thumb/D0001.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.ref)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
