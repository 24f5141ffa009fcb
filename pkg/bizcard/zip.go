package bizcard

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ZipEntry is a file on disk and its name inside the archive.
type ZipEntry struct {
	Path string
	Name string
}

func addFileToZip(archive *zip.Writer, entry ZipEntry) error {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return nil // Skip directories
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = entry.Name
	header.Method = zip.Deflate

	writer, err := archive.CreateHeader(header)
	if err != nil {
		return err
	}

	fileReader, err := os.Open(entry.Path)
	if err != nil {
		return err
	}
	defer fileReader.Close()

	_, err = io.Copy(writer, fileReader)
	return err
}

func WriteZip(w io.Writer, entries []ZipEntry) error {
	archive := zip.NewWriter(w)

	for _, entry := range entries {
		if err := addFileToZip(archive, entry); err != nil {
			archive.Close()
			return fmt.Errorf("failed to add %s to zip: %w", entry.Name, err)
		}
	}

	return archive.Close()
}

func ZipFiles(entries []ZipEntry, zipFile string) error {
	out, err := os.Create(zipFile)
	if err != nil {
		return err
	}

	if err := WriteZip(out, entries); err != nil {
		out.Close()
		os.Remove(zipFile)
		return err
	}
	return out.Close()
}

// Every generated card has the same file name, number them inside the archive.
func ZipEntriesForResults(results []GeneratedResult) []ZipEntry {
	entries := make([]ZipEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, ZipEntry{
			Path: r.FilePath,
			Name: fmt.Sprintf("card_%03d.pdf", r.Number),
		})
	}
	return entries
}
