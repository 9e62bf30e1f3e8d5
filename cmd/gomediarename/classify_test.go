package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want SourceKind
	}{
		{"WhatsApp Image 2023-05-01 at 10.30.00.jpeg", ChatExport},
		{"WhatsApp Video 2023-05-01 at 10.30.00.mp4", ChatExport},
		{"IMG-20230501-WA0001.jpg", ChatInline},
		{"VID-20230501-WA0003.mp4", ChatInline},
		{"Screenshot_2023-05-01-10-30-00-12_com.example.png", Screenshot},
		{"Snapchat-123456789.jpg", SocialPhoto},
		{"Snapchat-123456789.mp4", SocialVideo},
		{"IMG_0042.HEIC", PhonePhoto},
		{"anything.heic", PhonePhoto},
		{"IMG_0043.MOV", PhoneVideo},
		{"IMG_20230501_103000.jpg", Generic},
		{"PXL_20230501_103000123.mp4", Generic},

		// first matching rule wins
		{"WhatsApp Screenshot.png", ChatExport},
		{"Screenshot-WA.png", ChatInline},
		{"Snapchat Screenshot.png", Screenshot},
		{"Snapchat-1.mov", SocialVideo},
		{"Snapchat-1.heic", SocialPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, _ := getMediaTypeInfo(tt.name)
			assert.Equal(t, tt.want, classify(tt.name, category))
		})
	}
}
