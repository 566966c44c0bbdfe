// package formatter provides functions to export listening history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/musicmuse/internal/models"
)

// RecentToCSV converts recent tracks to CSV with columns: ID, Title, Artists, Album, PlayedAt
func RecentToCSV(entries []models.RecentTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "PlayedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.TrackID,
			entry.Name,
			entry.ArtistNames,
			entry.AlbumName,
			entry.PlayedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RankedToCSV converts a ranked list to CSV with columns: Rank, ID, Name, Plays, Link
func RankedToCSV(entities []models.EnrichedEntity) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "ID", "Name", "Plays", "Link"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entity := range entities {
		record := []string{
			strconv.Itoa(i + 1),
			entity.ID,
			entity.Name,
			strconv.Itoa(entity.Count),
			entity.CanonicalURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecentToMarkdown converts recent tracks to a Markdown listing.
func RecentToMarkdown(entries []models.RecentTrack) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Recently Played\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(entries)))

	for i, entry := range entries {
		albumPart := ""
		if entry.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", entry.AlbumName)
		}
		if entry.CanonicalURL != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)%s\n", i+1, entry.ArtistNames, entry.Name, entry.CanonicalURL, albumPart))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, entry.ArtistNames, entry.Name, albumPart))
		}
	}

	return buf.Bytes()
}

// RankedToMarkdown converts a ranked list to a Markdown listing.
func RankedToMarkdown(title string, entities []models.EnrichedEntity) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	for i, entity := range entities {
		if entity.CanonicalURL != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s](%s) (%d plays)\n", i+1, entity.Name, entity.CanonicalURL, entity.Count))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s (%d plays)\n", i+1, entity.Name, entity.Count))
		}
	}

	return buf.Bytes()
}

// WriteRecentExport writes recent tracks to path, picking the format from the
// file extension (.csv for CSV, anything else for Markdown).
func WriteRecentExport(entries []models.RecentTrack, path string) error {
	var data []byte
	var err error

	if filepath.Ext(path) == ".csv" {
		if data, err = RecentToCSV(entries); err != nil {
			return err
		}
	} else {
		data = RecentToMarkdown(entries)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// WriteRankedExport writes a ranked list to path, picking the format from
// the file extension (.csv for CSV, anything else for Markdown).
func WriteRankedExport(title string, entities []models.EnrichedEntity, path string) error {
	var data []byte
	var err error

	if filepath.Ext(path) == ".csv" {
		if data, err = RankedToCSV(entities); err != nil {
			return err
		}
	} else {
		data = RankedToMarkdown(title, entities)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
