package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"snip/internal/format"
	"snip/internal/ident"
	"snip/internal/models"
)

var (
	outputFormatter format.Formatter = format.JSONFormatter{Indent: "  "}
	stdout          io.Writer        = os.Stdout
)

func writeJSON(payload any) error {
	return outputFormatter.Write(stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(stdout, format, args...)
	return err
}

func writeSnippetList(snippets []models.Snippet) error {
	for _, snippet := range snippets {
		if err := writePlain("%s\n", formatSnippetLine(snippet)); err != nil {
			return err
		}
	}
	return nil
}

func writeSnippetDetail(snippet *models.Snippet, attachments []models.AttachmentInfo) error {
	lines := []string{
		fmt.Sprintf("id: %s", snippet.ID),
		fmt.Sprintf("name: %s", snippet.Name),
		fmt.Sprintf("created_at: %s", formatTime(snippet.CreatedAt)),
	}
	if len(attachments) > 0 {
		lines = append(lines, "attachments:")
		for _, info := range attachments {
			lines = append(lines, "  - "+formatAttachmentLine(info))
		}
	}
	lines = append(lines, "", snippet.Text)

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeAttachmentList(infos []models.AttachmentInfo) error {
	for _, info := range infos {
		if err := writePlain("%s\n", formatAttachmentLine(info)); err != nil {
			return err
		}
	}
	return nil
}

func writeIDList(ids []ident.ID) error {
	for _, id := range ids {
		if err := writePlain("%s\n", id); err != nil {
			return err
		}
	}
	return nil
}

func writeAttachmentDetail(attachment *models.Attachment) error {
	lines := []string{
		fmt.Sprintf("id: %s", attachment.ID),
		fmt.Sprintf("snippet_id: %s", attachment.SnippetID),
		fmt.Sprintf("name: %s", attachment.Name),
		fmt.Sprintf("size: %s (%d bytes)", humanize.IBytes(uint64(attachment.Size)), attachment.Size),
		fmt.Sprintf("created_at: %s", formatTime(attachment.CreatedAt)),
		fmt.Sprintf("blake3: %s", attachment.Digest()),
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatSnippetLine(snippet models.Snippet) string {
	return fmt.Sprintf("%s %s %s", snippet.ID.Short(), formatTime(snippet.CreatedAt), snippet.Name)
}

func formatAttachmentLine(info models.AttachmentInfo) string {
	return fmt.Sprintf("%s %s %s %s", info.ID.Short(), formatTime(info.CreatedAt), humanize.IBytes(uint64(info.Size)), info.Name)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
