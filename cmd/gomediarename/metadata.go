package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	"github.com/barasher/go-exiftool"
	"github.com/evanoberholster/imagemeta"
	"github.com/rwcarlsen/goexif/exif"
	log "github.com/sirupsen/logrus"
)

// appleEpochOffset is the number of seconds between 1904-01-01 (the
// QuickTime/MP4 epoch) and 1970-01-01.
const appleEpochOffset = 2082844800

const (
	exifDateTimeLayout     = "2006:01:02 15:04:05"
	creationTimeTagLayout  = "2006-01-02T15:04:05.000000Z"
	backendNative          = "native"
	backendExiftool        = "exiftool"
	exiftoolZeroDatePrefix = "0000"
)

var errNoTimestamp = errors.New("no capture timestamp in metadata")

// metadataReader returns raw capture timestamps as they are stored in a file.
// Images yield EXIF DateTimeOriginal ("2006:01:02 15:04:05"), videos yield the
// container creation time. Both return errNoTimestamp when the field is absent.
type metadataReader interface {
	imageTimestamp(path string) (string, error)
	videoTimestamp(path string) (string, error)
	Close() error
}

func newMetadataReader(backend string) (metadataReader, error) {
	switch backend {
	case backendNative, "":
		return nativeReader{}, nil
	case backendExiftool:
		return newExiftoolReader()
	default:
		return nil, fmt.Errorf("unknown metadata backend: %q", backend)
	}
}

// nativeReader decodes metadata in-process.
type nativeReader struct{}

func (nativeReader) imageTimestamp(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if e, err := imagemeta.Decode(f); err == nil {
		if t := e.DateTimeOriginal(); !t.IsZero() {
			return t.Format(exifDateTimeLayout), nil
		}
	}

	// goexif copes with some JPEGs imagemeta rejects
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding %s: %w", path, err)
	}
	x, err := exif.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoTimestamp, err)
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", errNoTimestamp
	}
	value, err := tag.StringVal()
	if err != nil || strings.TrimSpace(value) == "" {
		return "", errNoTimestamp
	}
	return strings.TrimSpace(value), nil
}

func (nativeReader) videoTimestamp(path string) (string, error) {
	t, err := extractVideoCreationTime(path)
	if err != nil {
		return "", err
	}
	return t.Format(creationTimeTagLayout), nil
}

func (nativeReader) Close() error { return nil }

// extractVideoCreationTime reads the movie header of an ISO-BMFF container
// (MP4, MOV) and returns its creation time in UTC.
func extractVideoCreationTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxWithPayload(f, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reading mvhd: %v", errNoTimestamp, err)
	}
	if len(boxes) == 0 {
		return time.Time{}, errNoTimestamp
	}

	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return time.Time{}, errNoTimestamp
	}

	var created uint64
	if mvhd.GetVersion() == 0 {
		created = uint64(mvhd.CreationTimeV0)
	} else {
		created = mvhd.CreationTimeV1
	}
	if created == 0 {
		return time.Time{}, errNoTimestamp
	}

	return time.Unix(int64(created)-appleEpochOffset, 0).UTC(), nil
}

// metadataExtractor is the part of *exiftool.Exiftool the reader uses.
type metadataExtractor interface {
	ExtractMetadata(files ...string) []exiftool.FileMetadata
	Close() error
}

// exiftoolReader delegates to a long-running exiftool process.
type exiftoolReader struct {
	et metadataExtractor
}

func newExiftoolReader() (*exiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return &exiftoolReader{et: et}, nil
}

func (r *exiftoolReader) imageTimestamp(path string) (string, error) {
	return r.lookup(path, "DateTimeOriginal")
}

// videoTimestamp prefers the movie header dates, which are stored in UTC.
// QuickTime CreationDate carries local time and is never consulted.
func (r *exiftoolReader) videoTimestamp(path string) (string, error) {
	return r.lookup(path, "CreateDate", "MediaCreateDate")
}

func (r *exiftoolReader) lookup(path string, keys ...string) (string, error) {
	metadatas := r.et.ExtractMetadata(path)
	if len(metadatas) == 0 {
		return "", errNoTimestamp
	}

	m := metadatas[0]
	if m.Err != nil {
		return "", fmt.Errorf("exiftool %s: %w", path, m.Err)
	}

	for _, key := range keys {
		value, err := m.GetString(key)
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || strings.HasPrefix(value, exiftoolZeroDatePrefix) {
			log.WithFields(log.Fields{"path": path, "tag": key}).Debug("Ignoring empty exiftool date")
			continue
		}
		return value, nil
	}

	return "", errNoTimestamp
}

func (r *exiftoolReader) Close() error {
	return r.et.Close()
}
