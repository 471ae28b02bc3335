package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/otiai10/copy"
)

// maxSuffix bounds the collision search so a pathological directory cannot
// spin forever.
const maxSuffix = 100000

// UniquePath returns a path in dstDir for name that does not exist yet. When
// name is taken it tries stem_1.ext, stem_2.ext, and so on, and reports
// whether a suffix was applied. dstDir need not exist.
func UniquePath(dstDir, name string) (string, bool, error) {
	candidate := filepath.Join(dstDir, name)
	exists, err := pathExists(candidate)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return candidate, false, nil
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxSuffix; n++ {
		candidate = filepath.Join(dstDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		exists, err = pathExists(candidate)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return candidate, true, nil
		}
	}
	return "", false, fmt.Errorf("no free name for %s in %s", name, dstDir)
}

// MoveUnique moves src into dstDir, creating dstDir as needed and suffixing
// the name on collision. It returns the final path and whether it was renamed.
func MoveUnique(src, dstDir string) (string, bool, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create destination %s: %w", dstDir, err)
	}
	dst, renamed, err := UniquePath(dstDir, filepath.Base(src))
	if err != nil {
		return "", false, err
	}
	if err := MoveFile(src, dst); err != nil {
		return "", false, err
	}
	return dst, renamed, nil
}

// MoveFile renames src to dst, falling back to a verified copy and removal
// when the two paths are on different filesystems.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := copy.Copy(src, dst, copy.Options{PreserveTimes: true}); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s across devices: %w", src, err)
	}
	if err := VerifyCopy(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// VerifyCopy checks that dst matches src by size and SHA256.
func VerifyCopy(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("stat copy: %w", err)
	}
	if srcInfo.Size() != dstInfo.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), dstInfo.Size())
	}
	srcSum, err := fileSum(src)
	if err != nil {
		return err
	}
	dstSum, err := fileSum(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(srcSum, dstSum) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func fileSum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
