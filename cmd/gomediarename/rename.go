package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

type FileStatus string

const (
	StatusPending   FileStatus = ""
	StatusRenamed   FileStatus = "renamed"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
)

// FileInfo represents one media file and its planned new name
type FileInfo struct {
	SourceName    string
	SourceDir     string
	DestName      string
	DestDir       string
	Size          int64
	ModTime       time.Time
	MediaCategory MediaCategory
	FileType      FileType
	Kind          SourceKind
	Status        FileStatus
}

func (fi FileInfo) sourcePath() string { return filepath.Join(fi.SourceDir, fi.SourceName) }
func (fi FileInfo) destPath() string   { return filepath.Join(fi.DestDir, fi.DestName) }

// renameStats tallies the outcome of a run.
type renameStats struct {
	Total       int // every directory entry, media or not
	Renamed     int
	Unchanged   int
	Failed      int
	BytesCopied int64
}

// NotProcessed counts entries that were never planned: directories,
// non-media files and anything skipped while listing.
func (s renameStats) NotProcessed() int {
	return s.Total - (s.Renamed + s.Unchanged + s.Failed)
}

// renameMedia runs the whole pipeline: list, plan, review, apply, report.
func renameMedia(cfg config, in io.Reader, out io.Writer) error {
	destDir := cfg.OutputDir
	if cfg.Mode == modeInPlace {
		destDir = cfg.SourceDir
	}

	log.WithFields(log.Fields{
		"source":  cfg.SourceDir,
		"dest":    destDir,
		"mode":    cfg.Mode,
		"backend": cfg.MetadataBackend,
		"dry_run": cfg.DryRun,
	}).Debug("Starting")

	files, total, err := enumerateFiles(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to enumerate files: %w", err)
	}
	log.WithFields(log.Fields{"entries": total, "media": len(files)}).Debug("Enumerated source directory")

	reader, err := newMetadataReader(cfg.MetadataBackend)
	if err != nil {
		return fmt.Errorf("opening metadata reader: %w", err)
	}
	defer reader.Close()

	planNames(files, newDeriver(reader, cfg.StripTokens), destDir)

	printPlan(out, files)

	if cfg.DryRun {
		log.WithField("type", "DRY RUN").Info("No files changed")
		return nil
	}

	if !cfg.AssumeYes {
		if err := confirm(in, out); err != nil {
			return err
		}
	}

	stats := applyPlan(files, cfg)
	stats.Total = total
	printSummary(out, stats, cfg.Mode)

	return nil
}

// applyPlan performs the planned renames or copies and returns the tally.
// Failures are counted and logged, never fatal.
func applyPlan(files []FileInfo, cfg config) renameStats {
	switch cfg.Mode {
	case modeCopy:
		copyPlanned(files, cfg.VerifyCopies)
	default:
		renamePlanned(files)
	}
	return tallyStatuses(files)
}

// renamePlanned renames files in place. A target still occupied by a file
// that is itself due to move is retried after the others, so chains such as
// A→B, B→C resolve regardless of listing order. Targets that never free up
// are not overwritten.
func renamePlanned(files []FileInfo) {
	var pending []int
	for i := range files {
		if files[i].DestName == files[i].SourceName && files[i].DestDir == files[i].SourceDir {
			files[i].Status = StatusUnchanged
			continue
		}
		pending = append(pending, i)
	}

	for progress := true; progress && len(pending) > 0; {
		progress = false
		var blocked []int
		for _, i := range pending {
			if exists(files[i].destPath()) {
				blocked = append(blocked, i)
				continue
			}
			progress = true

			if err := os.Rename(files[i].sourcePath(), files[i].destPath()); err != nil {
				log.WithFields(log.Fields{"src": files[i].sourcePath(), "dest": files[i].destPath(), "error": err}).Error("Rename failed")
				files[i].Status = StatusFailed
				continue
			}
			log.WithFields(log.Fields{"type": "RENAME", "src": files[i].SourceName, "dest": files[i].DestName}).Debug("Renamed file")
			files[i].Status = StatusRenamed
		}
		pending = blocked
	}

	for _, i := range pending {
		log.WithFields(log.Fields{"src": files[i].sourcePath(), "dest": files[i].destPath()}).Error("Destination already exists, not overwriting")
		files[i].Status = StatusFailed
	}
}

func copyPlanned(files []FileInfo, verify bool) {
	for i := range files {
		f := &files[i]

		if err := os.MkdirAll(f.DestDir, 0755); err != nil {
			log.WithFields(log.Fields{"dir": f.DestDir, "error": err}).Error("Failed to create destination directory")
			f.Status = StatusFailed
			continue
		}

		if exists(f.destPath()) {
			log.WithFields(log.Fields{"src": f.sourcePath(), "dest": f.destPath()}).Error("Destination already exists, not overwriting")
			f.Status = StatusFailed
			continue
		}

		if err := copyFile(f.sourcePath(), f.destPath()); err != nil {
			log.WithFields(log.Fields{"src": f.sourcePath(), "dest": f.destPath(), "error": err}).Error("Copy failed")
			f.Status = StatusFailed
			continue
		}

		if err := setFileTimes(f.destPath(), f.ModTime); err != nil {
			log.WithFields(log.Fields{"dest": f.destPath(), "error": err}).Warn("Failed to preserve modification time")
		}

		if verify {
			if err := verifyCopy(f.sourcePath(), f.destPath()); err != nil {
				log.WithFields(log.Fields{"dest": f.destPath(), "error": err}).Error("Copy verification failed")
				if rmErr := os.Remove(f.destPath()); rmErr != nil {
					log.WithFields(log.Fields{"dest": f.destPath(), "error": rmErr}).Warn("Failed to remove bad copy")
				}
				f.Status = StatusFailed
				continue
			}
		}

		log.WithFields(log.Fields{"type": "COPY", "src": f.SourceName, "dest": f.DestName}).Debug("Copied file")
		if f.DestName == f.SourceName {
			f.Status = StatusUnchanged
		} else {
			f.Status = StatusRenamed
		}
	}
}

func tallyStatuses(files []FileInfo) renameStats {
	var stats renameStats
	for _, f := range files {
		switch f.Status {
		case StatusRenamed:
			stats.Renamed++
		case StatusUnchanged:
			stats.Unchanged++
		case StatusFailed:
			stats.Failed++
		}
		if f.Status == StatusRenamed || f.Status == StatusUnchanged {
			if f.DestDir != f.SourceDir {
				stats.BytesCopied += f.Size
			}
		}
	}
	return stats
}
