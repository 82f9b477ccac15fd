package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"invest/internal/config"
)

// BackupToZip writes a zip containing the database file.
func BackupToZip(cfg config.Config, destPath string) (string, error) {
	if destPath == "" {
		destPath = fmt.Sprintf("invest-backup-%s.zip", time.Now().UTC().Format("20060102-150405"))
	}
	if filepath.Ext(destPath) != ".zip" {
		destPath = destPath + ".zip"
	}
	out, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	zipWriter := zip.NewWriter(out)
	if err := addFileToZip(zipWriter, cfg.DBPath, filepath.Base(cfg.DBPath)); err != nil {
		_ = zipWriter.Close()
		return "", fmt.Errorf("add database: %w", err)
	}
	if err := zipWriter.Close(); err != nil {
		return "", err
	}
	return destPath, nil
}

func addFileToZip(zipWriter *zip.Writer, sourcePath, name string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
