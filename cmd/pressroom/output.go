package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/dustin/go-humanize"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeNoticeList(list []announcement.Announcement) error {
	if len(list) == 0 {
		return writePlain("no announcements\n")
	}
	for _, a := range list {
		line := fmt.Sprintf("%s  %s  (%s", a.ID, a.Title, humanize.Time(a.CreatedAt))
		if n := len(a.Attachments); n > 0 {
			line += fmt.Sprintf(", %d attachment%s", n, plural(n))
		}
		if err := writePlain("%s)\n", line); err != nil {
			return err
		}
	}
	return nil
}

func writeNoticeDetail(a announcement.Announcement) error {
	lines := []string{
		fmt.Sprintf("id: %s", a.ID),
		fmt.Sprintf("title: %s", a.Title),
		fmt.Sprintf("created_at: %s", a.CreatedAt.Format(time.RFC3339)),
		fmt.Sprintf("updated_at: %s", a.UpdatedAt.Format(time.RFC3339)),
	}
	for i, m := range a.Attachments {
		lines = append(lines, fmt.Sprintf("attachment[%d]: %s", i, formatMeta(m)))
	}
	lines = append(lines, "", string(a.Content))
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatMeta(m attachment.Meta) string {
	out := fmt.Sprintf("%s (%s, %s) %s", m.Name, m.Type, humanize.IBytes(uint64(max(m.Size, 0))), m.URL)
	if m.StoredName != "" {
		out += " [" + m.StoredName + "]"
	}
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
