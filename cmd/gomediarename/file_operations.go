package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
)

// enumerateFiles lists the media files directly inside sourceDir, sorted by
// name. The second return value is the number of directory entries seen,
// media or not.
func enumerateFiles(sourceDir string) ([]FileInfo, int, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("source directory does not exist: %w", err)
		}
		return nil, 0, fmt.Errorf("error reading source directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		category, fileType := getMediaTypeInfo(entry.Name())
		if category == "" {
			log.WithField("file", entry.Name()).Debug("Skipping non-media file")
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.WithFields(log.Fields{"file": entry.Name(), "error": err}).Warn("Skipping unreadable file")
			continue
		}

		files = append(files, FileInfo{
			SourceName:    entry.Name(),
			SourceDir:     sourceDir,
			Size:          info.Size(),
			ModTime:       info.ModTime(),
			MediaCategory: category,
			FileType:      fileType,
		})
	}

	return files, len(entries), nil
}

// planNames classifies every file and fills in DestName. Files whose name
// would not change claim their name before any renamed file does, so a file
// that is already canonical never gets a collision suffix.
func planNames(files []FileInfo, d *deriver, destDir string) {
	proposed := make([]string, len(files))
	for i := range files {
		files[i].DestDir = destDir
		files[i].Kind = classify(files[i].SourceName, files[i].MediaCategory)
		derived := d.derive(files[i].SourceDir, files[i].SourceName, files[i].Kind, files[i].MediaCategory)
		proposed[i] = canonicalize(derived)

		log.WithFields(log.Fields{
			"file":     files[i].SourceName,
			"kind":     files[i].Kind,
			"derived":  derived,
			"proposed": proposed[i],
		}).Debug("Derived name")
	}

	registry := newNameRegistry()
	for i := range files {
		if proposed[i] == files[i].SourceName {
			files[i].DestName = registry.claim(files[i].SourceName, proposed[i])
		}
	}
	for i := range files {
		if proposed[i] != files[i].SourceName {
			files[i].DestName = registry.claim(files[i].SourceName, proposed[i])
		}
	}
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		os.Remove(dst)
		return err
	}
	if err := destFile.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// setFileTimes stamps path with t as both access and modification time.
func setFileTimes(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !os.IsNotExist(err)
}

func calculateXXHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := xxhash.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", hash.Sum64()), nil
}

// verifyCopy compares the content hashes of src and dst.
func verifyCopy(src, dst string) error {
	srcSum, err := calculateXXHash(src)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", src, err)
	}
	dstSum, err := calculateXXHash(dst)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", dst, err)
	}
	if srcSum != dstSum {
		return fmt.Errorf("checksum mismatch: %s (%s) vs %s (%s)", src, srcSum, dst, dstSum)
	}
	return nil
}
