package main

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// defaultStripTokens are removed from generic names in this order, so the
// underscore and dash variants must come before the bare prefix.
var defaultStripTokens = []string{"IMG_", "IMG-", "IMG", "VID_", "VID-", "VID", "PXL_", "PXL-", "PXL", "_iOS"}

var (
	// Screenshot_2023-05-01-10-30-00-12_com.example.app.png
	screenshotPattern = regexp.MustCompile(`^Screenshot_(\d{4}-\d{2}-\d{2})-(\d{2})-(\d{2})-(\d{2})-\d{2}_[a-z0-9]+\.\w+`)
	// WhatsApp Image 2023-05-01 at 10.30.00.jpeg
	chatExportPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2}) at (\d{2})\.(\d{2})\.(\d{2})`)

	timestampReplacer = strings.NewReplacer("-", "", ":", "", " ", "_", "T", "_")
)

// deriver proposes a new name for a file according to its source kind.
type deriver struct {
	reader      metadataReader
	stripTokens []string
}

func newDeriver(reader metadataReader, stripTokens []string) *deriver {
	if stripTokens == nil {
		stripTokens = defaultStripTokens
	}
	return &deriver{reader: reader, stripTokens: stripTokens}
}

// derive returns the proposed name before canonicalization. Whenever no
// timestamp can be found the current name is returned.
func (d *deriver) derive(dir, name string, kind SourceKind, category MediaCategory) string {
	switch kind {
	case ChatExport:
		if newName, ok := d.fromMetadata(dir, name, category); ok {
			return newName
		}
		if m := chatExportPattern.FindStringSubmatch(name); m != nil {
			return m[1] + m[2] + m[3] + "_" + m[4] + m[5] + m[6] + filepath.Ext(name)
		}
		return name
	case ChatInline, PhonePhoto, PhoneVideo, SocialVideo:
		if newName, ok := d.fromMetadata(dir, name, category); ok {
			return newName
		}
		return name
	case Screenshot:
		if newName, ok := screenshotName(name); ok {
			return newName
		}
		log.WithField("file", name).Debug("Screenshot name not recognised, using generic rule")
		return d.stripTokensFrom(name)
	case SocialPhoto:
		// Social app photos carry no usable timestamp.
		return name
	default:
		return d.stripTokensFrom(name)
	}
}

func (d *deriver) fromMetadata(dir, name string, category MediaCategory) (string, bool) {
	path := filepath.Join(dir, name)

	var raw string
	var err error
	if category == Video {
		raw, err = d.reader.videoTimestamp(path)
	} else {
		raw, err = d.reader.imageTimestamp(path)
	}
	if err != nil {
		fields := log.Fields{"file": name, "error": err}
		if errors.Is(err, errNoTimestamp) {
			log.WithFields(fields).Debug("No metadata timestamp, keeping name")
		} else {
			log.WithFields(fields).Warn("Failed to read metadata, keeping name")
		}
		return "", false
	}

	return normalizeTimestamp(raw) + filepath.Ext(name), true
}

func screenshotName(name string) (string, bool) {
	m := screenshotPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	date := strings.ReplaceAll(m[1], "-", "")
	return date + "_" + m[2] + m[3] + m[4] + filepath.Ext(name), true
}

func (d *deriver) stripTokensFrom(name string) string {
	for _, token := range d.stripTokens {
		name = strings.ReplaceAll(name, token, "")
	}
	return name
}

// normalizeTimestamp turns "2023:05:01 10:30:00" or "2023-05-01T10:30:00.000000Z"
// into "20230501_103000". Anything after the seconds other than a fraction is
// left for the canonicalizer to trim.
func normalizeTimestamp(raw string) string {
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	return timestampReplacer.Replace(strings.TrimSpace(raw))
}
