package tui

import (
	"fmt"
	"strings"

	"mangaread/internal/reader"
	"mangaread/pkg/types"
)

// RenderInfo draws the metadata view for a manga.
func RenderInfo(manga *types.Manga) string {
	var sb strings.Builder

	title := manga.EnglishName
	if title == "" {
		title = manga.JapaneseName
	}
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n\n")

	field := func(label, value string) {
		sb.WriteString(LabelStyle.Render(label))
		sb.WriteString(" " + value + "\n")
	}

	field("id:", fmt.Sprintf("%d", manga.ID))
	field("english name:", manga.EnglishName)
	field("japanese name:", manga.JapaneseName)
	field("tags:", renderBadges(manga.Tags))
	field("artists:", renderBadges(manga.Artists))
	field("pages:", fmt.Sprintf("%d", manga.Pages))
	field("uploaded:", manga.Uploaded)
	if len(manga.Cover) > 0 {
		field("cover:", humanSize(len(manga.Cover)))
	}

	sb.WriteString("\n" + HelpStyle.Render("[enter] read manga  [q] quit"))
	return App.Render(sb.String())
}

func renderBadges(items []string) string {
	if len(items) == 0 {
		return StatusStyle.Render("(none)")
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(BadgeStyle.Render(item))
	}
	return sb.String()
}

// RenderSlots draws the composed slot list as text blocks. Every slot is
// exactly pageRows lines tall, loaded or not, so the viewport's offset
// arithmetic lines up with the engine's page-height constant.
func RenderSlots(slots []reader.ViewSlot, width, pageRows int) string {
	blocks := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.Kind == reader.ImageSlot {
			blocks = append(blocks, renderPage(slot, width, pageRows))
		} else {
			blocks = append(blocks, renderSpacer(slot, width, pageRows))
		}
	}
	return strings.Join(blocks, "\n")
}

func renderPage(slot reader.ViewSlot, width, pageRows int) string {
	lines := make([]string, 0, pageRows)
	header := fmt.Sprintf("page %d  %s", slot.Index+1, humanSize(len(slot.Content)))
	lines = append(lines, PageHeaderStyle.Render(header))

	body := PageBodyStyle.Render(strings.Repeat("█", max(1, width-4)))
	for len(lines) < pageRows {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}

func renderSpacer(slot reader.ViewSlot, width, pageRows int) string {
	lines := make([]string, 0, pageRows)
	lines = append(lines, SpacerStyle.Render(fmt.Sprintf("page %d  (not loaded)", slot.Index+1)))

	body := SpacerStyle.Render(strings.Repeat("·", max(1, width-4)))
	for len(lines) < pageRows {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}

// RenderKeyCommands draws the reading-view help bar.
func RenderKeyCommands() string {
	return HelpStyle.Render("[↑/k] Up  [↓/j] Down  [PgUp/PgDn] Page  [i] Info  [q] Quit")
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
