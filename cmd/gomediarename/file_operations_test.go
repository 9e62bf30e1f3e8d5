package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnumerateFiles(t *testing.T) {
	tempDir := t.TempDir()

	// Create test files
	testFiles := []string{"b.jpg", "a.mp4", "notes.txt", "c.HEIC"}
	for _, file := range testFiles {
		if err := os.WriteFile(filepath.Join(tempDir, file), []byte("data"), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", file, err)
		}
	}

	// Subdirectories are counted but never renamed, even with a media extension
	if err := os.Mkdir(filepath.Join(tempDir, "album.jpg"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	files, total, err := enumerateFiles(tempDir)
	if err != nil {
		t.Fatalf("enumerateFiles failed: %v", err)
	}

	if total != 5 {
		t.Errorf("Expected 5 directory entries, got %d", total)
	}

	wantNames := []string{"a.mp4", "b.jpg", "c.HEIC"}
	if len(files) != len(wantNames) {
		t.Fatalf("Expected %d files, but got %d", len(wantNames), len(files))
	}
	for i, want := range wantNames {
		if files[i].SourceName != want {
			t.Errorf("files[%d] = %s, want %s", i, files[i].SourceName, want)
		}
		if files[i].SourceDir != tempDir {
			t.Errorf("Incorrect source directory for file %s: expected %s, got %s", files[i].SourceName, tempDir, files[i].SourceDir)
		}
		if files[i].Size != 4 {
			t.Errorf("Incorrect size for file %s: %d", files[i].SourceName, files[i].Size)
		}
	}
	if files[0].MediaCategory != Video || files[2].FileType != HEIF {
		t.Errorf("Media types not filled in: %+v", files)
	}

	// Test with non-existent directory
	if _, _, err := enumerateFiles("/non/existent/dir"); err == nil {
		t.Error("Expected error for non-existent directory, but got none")
	}

	// Test with empty source directory
	emptyFiles, total, err := enumerateFiles(t.TempDir())
	if err != nil {
		t.Fatalf("enumerateFiles failed for empty directory: %v", err)
	}
	if len(emptyFiles) != 0 || total != 0 {
		t.Errorf("Expected 0 files in empty directory, but got %d (%d entries)", len(emptyFiles), total)
	}
}

func TestPlanNames(t *testing.T) {
	srcDir := t.TempDir()
	for _, name := range []string{
		"20230501103000.jpg",      // missing separator
		"20230501_103000.jpg",     // already canonical
		"IMG_20230501_103000.jpg", // generic prefix
		"Snapchat-1.jpg",
		"IMG_0043.MOV",
	} {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, _, err := enumerateFiles(srcDir)
	if err != nil {
		t.Fatal(err)
	}

	reader := &fakeReader{videos: map[string]string{"IMG_0043.MOV": "2023-05-01T10:30:00.000000Z"}}
	planNames(files, newDeriver(reader, nil), "/out")

	want := map[string]string{
		"20230501_103000.jpg":     "20230501_103000.jpg",
		"20230501103000.jpg":      "20230501_103000 (1).jpg",
		"IMG_20230501_103000.jpg": "20230501_103000 (2).jpg",
		"Snapchat-1.jpg":          "Snapchat-1.jpg",
		"IMG_0043.MOV":            "20230501_103000.MOV",
	}
	for _, f := range files {
		if f.DestName != want[f.SourceName] {
			t.Errorf("%s planned as %q, want %q", f.SourceName, f.DestName, want[f.SourceName])
		}
		if f.DestDir != "/out" {
			t.Errorf("%s DestDir = %q, want /out", f.SourceName, f.DestDir)
		}
		if f.Kind == "" {
			t.Errorf("%s was not classified", f.SourceName)
		}
	}
}

func TestCalculateXXHash(t *testing.T) {
	tempDir := t.TempDir()

	content := []byte("test content")
	a := filepath.Join(tempDir, "a.txt")
	b := filepath.Join(tempDir, "b.txt")
	c := filepath.Join(tempDir, "c.txt")
	for path, data := range map[string][]byte{a: content, b: content, c: []byte("other content")} {
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	sumA, err := calculateXXHash(a)
	if err != nil {
		t.Fatalf("calculateXXHash failed: %v", err)
	}
	if len(sumA) != 16 {
		t.Errorf("Expected 16 hex digits, got %q", sumA)
	}

	sumB, _ := calculateXXHash(b)
	sumC, _ := calculateXXHash(c)
	if sumA != sumB {
		t.Errorf("Equal content hashed differently: %s vs %s", sumA, sumB)
	}
	if sumA == sumC {
		t.Errorf("Different content hashed the same: %s", sumA)
	}

	// Test with non-existent file
	if _, err := calculateXXHash(filepath.Join(tempDir, "non-existent.txt")); err == nil {
		t.Error("Expected error for non-existent file, but got none")
	}
}

func TestVerifyCopy(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src.jpg")
	good := filepath.Join(tempDir, "good.jpg")
	bad := filepath.Join(tempDir, "bad.jpg")

	if err := os.WriteFile(src, []byte("photo"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, good); err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}
	if err := os.WriteFile(bad, []byte("phot0"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := verifyCopy(src, good); err != nil {
		t.Errorf("verifyCopy on identical copy: %v", err)
	}
	if err := verifyCopy(src, bad); err == nil {
		t.Error("Expected checksum mismatch, got nil")
	}
	if err := verifyCopy(src, filepath.Join(tempDir, "missing.jpg")); err == nil {
		t.Error("Expected error for missing copy, got nil")
	}
}

func TestCopyFileRemovesPartialCopy(t *testing.T) {
	tempDir := t.TempDir()

	// Opening a directory works, reading from it does not
	src := filepath.Join(tempDir, "album")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(tempDir, "20230501_103000.jpg")

	if err := copyFile(src, dst); err == nil {
		t.Fatal("Expected copyFile to fail when the source cannot be read")
	}
	if exists(dst) {
		t.Errorf("Partial copy %s left behind", dst)
	}
}

func TestSetFileTimes(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	targetTime := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := setFileTimes(testFile, targetTime); err != nil {
		t.Fatalf("setFileTimes failed: %v", err)
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}

	if !info.ModTime().Equal(targetTime) {
		t.Errorf("Expected mod time %v, got %v", targetTime, info.ModTime())
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if !exists(dir) {
		t.Errorf("exists(%s) = false for a directory", dir)
	}
	if exists(filepath.Join(dir, "nope")) {
		t.Error("exists returned true for a missing path")
	}
}
