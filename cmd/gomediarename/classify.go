package main

import (
	"path/filepath"
	"strings"
)

// SourceKind identifies which app or device naming convention a file follows.
type SourceKind string

const (
	ChatExport  SourceKind = "chat export"
	ChatInline  SourceKind = "chat inline"
	Screenshot  SourceKind = "screenshot"
	SocialPhoto SourceKind = "social photo"
	SocialVideo SourceKind = "social video"
	PhonePhoto  SourceKind = "phone photo"
	PhoneVideo  SourceKind = "phone video"
	Generic     SourceKind = "generic"
)

// classify picks the naming rule for a media file. Order matters: a chat
// export of a screenshot is still a chat export.
func classify(name string, category MediaCategory) SourceKind {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case strings.Contains(name, "WhatsApp"):
		return ChatExport
	case strings.Contains(name, "-WA"):
		return ChatInline
	case strings.Contains(name, "Screenshot"):
		return Screenshot
	case strings.Contains(name, "Snapchat") && category == Video:
		return SocialVideo
	case strings.Contains(name, "Snapchat"):
		return SocialPhoto
	case ext == ".heic":
		return PhonePhoto
	case ext == ".mov":
		return PhoneVideo
	default:
		return Generic
	}
}
