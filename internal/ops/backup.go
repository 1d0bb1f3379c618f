// Package ops holds operational tooling for a deployed watch-sim install:
// archiving and restoring the save database.
package ops

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// sidecarSuffixes are the SQLite companion files that must travel with the
// database for a consistent restore.
var sidecarSuffixes = []string{"", "-wal", "-shm"}

// BackupSaves archives the save database (and any WAL/SHM sidecars) into a
// tar.gz at archivePath. The store should be closed before calling this.
func BackupSaves(dbPath, archivePath string) error {
	dbPath = filepath.Clean(strings.TrimSpace(dbPath))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dbPath == "" || dbPath == "." || archivePath == "" || archivePath == "." {
		return fmt.Errorf("dbPath and archivePath are required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("save database not found: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, suffix := range sidecarSuffixes {
		path := dbPath + suffix
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := addFile(tw, path, filepath.Base(path), info); err != nil {
			return err
		}
	}
	return nil
}

func addFile(tw *tar.Writer, path, name string, info os.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(tw, src)
	return err
}

// RestoreSaves unpacks a backup archive next to dbPath, overwriting the save
// database and its sidecars. Archive entries are restored flat; anything
// trying to escape the target directory is rejected.
func RestoreSaves(archivePath, dbPath string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	dbPath = filepath.Clean(strings.TrimSpace(dbPath))
	if archivePath == "" || archivePath == "." || dbPath == "" || dbPath == "." {
		return fmt.Errorf("archivePath and dbPath are required")
	}
	targetDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name, err := sanitizeEntryName(hdr.Name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(targetDir, name)

		dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, tr); err != nil {
			_ = dst.Close()
			return err
		}
		if err := dst.Close(); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeEntryName(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid archive entry: %q", name)
	}
	if filepath.IsAbs(name) || strings.Contains(name, string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry must be a flat file name: %q", name)
	}
	return name, nil
}
