package main

import (
	"path/filepath"
	"strings"
)

type FileType string

const (
	JPEG FileType = "jpeg"
	PNG  FileType = "png"
	HEIF FileType = "heif"

	MP4 FileType = "mp4"
	MOV FileType = "mov"
)

type MediaCategory string

const (
	Picture MediaCategory = "picture"
	Video   MediaCategory = "video"
)

// Only the formats phones and chat apps actually produce are renamed.
var fileExtensionToFileType = map[string]FileType{
	"jpg": JPEG, "jpeg": JPEG,
	"png":  PNG,
	"heic": HEIF,

	"mp4": MP4,
	"mov": MOV,
}

var fileTypeToMediaCategory = map[FileType]MediaCategory{
	JPEG: Picture,
	PNG:  Picture,
	HEIF: Picture,

	MP4: Video,
	MOV: Video,
}

func getMediaTypeInfo(name string) (MediaCategory, FileType) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "", ""
	}

	fileType, ok := fileExtensionToFileType[ext[1:]] // Remove the leading dot
	if !ok {
		return "", ""
	}

	category, ok := fileTypeToMediaCategory[fileType]
	if !ok {
		return "", ""
	}

	return category, fileType
}
