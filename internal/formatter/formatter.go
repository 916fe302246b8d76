// package formatter provides functions to export roster cards to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/rosterx/internal/projection"
	"github.com/desertthunder/rosterx/internal/shared"
)

// CardExport is a titled set of projected roster cards.
type CardExport struct {
	Name    string                     `json:"name"`
	Records []projection.DisplayRecord `json:"records"`
}

// ExportToCSV converts a CardExport to CSV format with columns: ID, Name, Email, Phone, Gender, Age, City, Socials, Image
func ExportToCSV(export *CardExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Email", "Phone", "Gender", "Age", "City", "Socials", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range export.Records {
		record := []string{
			rec.ID,
			rec.Title,
			rec.Email,
			rec.Phone,
			rec.Gender,
			ageString(rec.Age),
			rec.City,
			socialsString(rec.SocialHandles),
			rec.ImageURL,
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

// ExportToMarkdown converts a CardExport to Markdown, one section per card.
//
// photos maps record IDs to local image paths; records without one show their initials.
func ExportToMarkdown(export *CardExport, photos map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))
	buf.WriteString(fmt.Sprintf("**Members**: %d\n\n", len(export.Records)))

	for _, rec := range export.Records {
		buf.WriteString(fmt.Sprintf("## %s\n\n", rec.Title))

		if photo, ok := photos[rec.ID]; ok && photo != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", rec.Title, photo))
		} else {
			buf.WriteString(fmt.Sprintf("`%s` _%s_\n\n", rec.Initials, rec.ColorClass))
		}

		if demo := rec.Demographics(); demo != "" {
			buf.WriteString(fmt.Sprintf("%s\n\n", demo))
		}
		if rec.Email != "" {
			buf.WriteString(fmt.Sprintf("- **Email**: %s\n", rec.Email))
		}
		if rec.Phone != "" {
			buf.WriteString(fmt.Sprintf("- **Phone**: %s\n", rec.Phone))
		}
		for _, h := range rec.SocialHandles {
			buf.WriteString(fmt.Sprintf("- **%s**: %s\n", socialLabel(h), h.Handle))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CardExport to plain text format
func ExportToText(export *CardExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Roster: %s\n", export.Name))
	buf.WriteString(fmt.Sprintf("Members: %d\n\n", len(export.Records)))

	for i, rec := range export.Records {
		line := fmt.Sprintf("%d. [%s] %s", i+1, rec.Initials, rec.Title)
		if demo := rec.Demographics(); demo != "" {
			line += " (" + demo + ")"
		}
		buf.WriteString(line + "\n")

		contact := make([]string, 0, 2)
		if rec.Email != "" {
			contact = append(contact, rec.Email)
		}
		if rec.Phone != "" {
			contact = append(contact, rec.Phone)
		}
		if len(contact) > 0 {
			buf.WriteString("   " + strings.Join(contact, " | ") + "\n")
		}
		if len(rec.SocialHandles) > 0 {
			buf.WriteString("   " + socialsString(rec.SocialHandles) + "\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON serializes the full export with indentation.
func ExportToJSON(export *CardExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteCSVExport exports cards to CSV.
//
// Defaults to {name}_roster.csv as the filename.
func WriteCSVExport(export *CardExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = baseName(export) + "_roster.csv"
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Photos    []string
}

// WriteMarkdownExport exports cards to Markdown format in a dedicated directory.
//
// Directory name defaults to the export name. When downloadPhotos is set, each record's image is
// fetched into {dir}/photos/{id}.jpg; failed downloads fall back to initials with a warning.
// Creates a directory structure: {dir}/README.md and optionally {dir}/photos/
func WriteMarkdownExport(export *CardExport, outputDir string, downloadPhotos bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = baseName(export)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	photos := map[string]string{}
	if downloadPhotos {
		for _, rec := range export.Records {
			if rec.ImageURL == "" {
				continue
			}

			imageData, err := DownloadImage(rec.ImageURL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to download photo for %s: %v\n", rec.Title, err)
				continue
			}

			if err := os.MkdirAll(path.Join(outputDir, "photos"), 0755); err != nil {
				return nil, fmt.Errorf("failed to create photos directory: %w", err)
			}

			relative := path.Join("photos", rec.ID+".jpg")
			photoPath := path.Join(outputDir, relative)
			if err := os.WriteFile(photoPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save photo for %s: %v\n", rec.Title, err)
				continue
			}

			photos[rec.ID] = relative
			result.Photos = append(result.Photos, photoPath)
			result.Files = append(result.Files, photoPath)
		}
	}

	mdData, err := ExportToMarkdown(export, photos)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := path.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports cards to plain text format.
//
// Defaults to {name}_roster.txt as the filename.
func WriteTextExport(export *CardExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = baseName(export) + "_roster.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports cards to JSON.
//
// Defaults to {name}_roster.json as the filename.
func WriteJSONExport(export *CardExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = baseName(export) + "_roster.json"
	}

	jsonData, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// SocialLabels maps social field keys to display names.
var SocialLabels = map[string]string{
	projection.KeyInstagram: "Instagram",
	projection.KeyFacebook:  "Facebook",
	projection.KeyTikTok:    "TikTok",
	projection.KeyYouTube:   "YouTube",
}

func socialLabel(h projection.SocialHandle) string {
	if label, ok := SocialLabels[h.Key]; ok {
		return label
	}
	return h.Key
}

func socialsString(handles []projection.SocialHandle) string {
	parts := make([]string, len(handles))
	for i, h := range handles {
		parts[i] = socialLabel(h) + ": " + h.Handle
	}
	return strings.Join(parts, "; ")
}

func ageString(age *int) string {
	if age == nil {
		return ""
	}
	return strconv.Itoa(*age)
}

// baseName turns the export name into a filesystem-friendly slug.
func baseName(export *CardExport) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(export.Name))
	if slug == "" {
		return "roster"
	}
	return slug
}
