package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/rosterx/internal/projection"
	th "github.com/desertthunder/rosterx/internal/testing"
)

func intPtr(i int) *int { return &i }

func sampleExport() *CardExport {
	return &CardExport{
		Name: "Spring Talent",
		Records: []projection.DisplayRecord{
			{
				ID:         "r-1",
				Title:      "Alex Johnson",
				Initials:   "AJ",
				ColorClass: "bg-green-500",
				Email:      "alex@example.com",
				Phone:      "(555) 123-4567",
				City:       "Austin",
				Age:        intPtr(25),
				Gender:     "Female",
				SocialHandles: []projection.SocialHandle{
					{Key: projection.KeyInstagram, Icon: "instagram", Handle: "@alexj"},
					{Key: projection.KeyYouTube, Icon: "youtube", Handle: "AlexTV"},
				},
			},
			{
				ID:         "r-2",
				Title:      "Madonna",
				Initials:   "M",
				ColorClass: "bg-indigo-500",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Email,Phone,Gender,Age,City,Socials,Image") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `r-1,Alex Johnson,alex@example.com,(555) 123-4567,Female,25,Austin,Instagram: @alexj; YouTube: AlexTV,`) {
			t.Errorf("CSV missing first record, got: %s", output)
		}
		if !strings.Contains(output, "r-2,Madonna,,,,,,,") {
			t.Errorf("CSV missing sparse record, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without photos", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Spring Talent",
				"**Members**: 2",
				"## Alex Johnson",
				"`AJ` _bg-green-500_",
				"Female, 25, Austin",
				"- **Email**: alex@example.com",
				"- **Instagram**: @alexj",
				"## Madonna",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q", want)
				}
			}
		})

		t.Run("with photos", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), map[string]string{"r-1": "photos/r-1.jpg"})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "![Alex Johnson](photos/r-1.jpg)") {
				t.Errorf("Markdown missing photo reference")
			}
			if strings.Contains(output, "`AJ`") {
				t.Errorf("Markdown should not show initials when a photo is present")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Roster: Spring Talent") {
			t.Errorf("Text missing roster name")
		}
		if !strings.Contains(output, "1. [AJ] Alex Johnson (Female, 25, Austin)") {
			t.Errorf("Text missing first card, got: %s", output)
		}
		if !strings.Contains(output, "   alex@example.com | (555) 123-4567") {
			t.Errorf("Text missing contact line")
		}
		if !strings.Contains(output, "2. [M] Madonna\n") {
			t.Errorf("Text missing sparse card, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded CardExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("ExportToJSON produced invalid JSON: %v", err)
		}
		if len(decoded.Records) != 2 {
			t.Errorf("Expected 2 records, got %d", len(decoded.Records))
		}
		if !strings.Contains(string(data), `"color_class": "bg-green-500"`) {
			t.Errorf("JSON missing color class, got: %s", data)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("Expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("Expected image bytes, got %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("Expected error for 404 response")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			file, err := WriteCSVExport(sampleExport(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if file != "spring_talent_roster.csv" {
				t.Errorf("Expected spring_talent_roster.csv, got %s", file)
			}
			th.AssertFileExists(t, file)

			if !strings.Contains(th.MustReadFile(t, file), "Alex Johnson") {
				t.Errorf("CSV file missing record")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			file, err := WriteCSVExport(sampleExport(), tempDir+"/custom.csv")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, file)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteMarkdownExport(sampleExport(), "", false)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if result.Directory != "spring_talent" {
				t.Errorf("Expected directory 'spring_talent', got '%s'", result.Directory)
			}
			th.AssertDirExists(t, result.Directory)

			content := th.MustReadFile(t, result.Directory+"/README.md")
			if !strings.Contains(content, "# Spring Talent") {
				t.Errorf("Markdown missing title")
			}
			if len(result.Photos) != 0 {
				t.Errorf("Expected no photos, got %v", result.Photos)
			}
		})

		t.Run("WithPhotos", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/missing") {
					http.NotFound(w, r)
					return
				}
				w.Write([]byte("jpeg-bytes"))
			}))
			defer server.Close()

			export := sampleExport()
			export.Records[0].ImageURL = server.URL + "/api/media/m-1/thumbnail"
			export.Records[1].ImageURL = server.URL + "/missing"

			dir := t.TempDir() + "/out"
			result, err := WriteMarkdownExport(export, dir, true)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if len(result.Photos) != 1 {
				t.Fatalf("Expected 1 downloaded photo, got %v", result.Photos)
			}
			th.AssertFileExists(t, dir+"/photos/r-1.jpg")

			content := th.MustReadFile(t, dir+"/README.md")
			if !strings.Contains(content, "![Alex Johnson](photos/r-1.jpg)") {
				t.Errorf("Markdown missing downloaded photo")
			}
			if !strings.Contains(content, "`M` _bg-indigo-500_") {
				t.Errorf("Markdown should fall back to initials for failed download")
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		file, err := WriteTextExport(sampleExport(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if file != "spring_talent_roster.txt" {
			t.Errorf("Expected spring_talent_roster.txt, got %s", file)
		}
		th.AssertFileExists(t, file)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		file, err := WriteJSONExport(&CardExport{Name: ""}, "")
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		if file != "roster_roster.json" {
			t.Errorf("Expected roster_roster.json, got %s", file)
		}
		th.AssertFileExists(t, file)
	})
}
