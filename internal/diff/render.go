package diff

import (
	"fmt"
	"html"
	"strings"
)

// RenderMode selects the HTML layout of a rendered patch.
type RenderMode string

const (
	ModeInline     RenderMode = "inline"
	ModeSideBySide RenderMode = "side-by-side"
)

// ParseRenderMode maps a query value to a RenderMode, defaulting to inline.
func ParseRenderMode(s string) RenderMode {
	if RenderMode(strings.ToLower(s)) == ModeSideBySide {
		return ModeSideBySide
	}
	return ModeInline
}

// RenderOptions controls RenderPatchHTML.
type RenderOptions struct {
	Mode RenderMode
}

const noChangesHTML = `<div class="diff diff-empty">No changes</div>`

// RenderPatchHTML renders a unified patch as an HTML table. Every piece of
// patch text is escaped. An empty or hunkless patch renders a "No changes"
// block, and so does one that cannot be parsed.
func RenderPatchHTML(patch string, opts RenderOptions) string {
	if strings.TrimSpace(patch) == "" {
		return noChangesHTML
	}
	hunks, err := ParsePatch(patch)
	if err != nil || len(hunks) == 0 {
		return noChangesHTML
	}

	var b strings.Builder
	if opts.Mode == ModeSideBySide {
		b.WriteString(`<table class="diff diff-side-by-side">`)
		for _, h := range hunks {
			writeHunkHeader(&b, h, 4)
			writeSideBySide(&b, h.Lines)
		}
	} else {
		b.WriteString(`<table class="diff diff-inline">`)
		for _, h := range hunks {
			writeHunkHeader(&b, h, 3)
			for _, l := range h.Lines {
				fmt.Fprintf(&b, `<tr class="%s"><td class="ln">%s</td><td class="ln">%s</td><td class="code">%s%s</td></tr>`,
					lineClass(l.Kind), lineNo(l.OldNo), lineNo(l.NewNo), linePrefix(l.Kind), html.EscapeString(l.Text))
			}
		}
	}
	b.WriteString(`</table>`)
	return b.String()
}

func writeHunkHeader(b *strings.Builder, h Hunk, cols int) {
	fmt.Fprintf(b, `<tr class="hunk"><td colspan="%d">@@ -%d,%d +%d,%d @@</td></tr>`,
		cols, h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// writeSideBySide pairs each run of removed lines with the run of added lines
// that follows it; context lines appear on both sides.
func writeSideBySide(b *strings.Builder, lines []Line) {
	for i := 0; i < len(lines); {
		if lines[i].Kind == LineContext {
			l := lines[i]
			text := html.EscapeString(l.Text)
			fmt.Fprintf(b, `<tr class="ctx"><td class="ln">%d</td><td class="code">%s</td><td class="ln">%d</td><td class="code">%s</td></tr>`,
				l.OldNo, text, l.NewNo, text)
			i++
			continue
		}
		var removed, added []Line
		for i < len(lines) && lines[i].Kind == LineRemoved {
			removed = append(removed, lines[i])
			i++
		}
		for i < len(lines) && lines[i].Kind == LineAdded {
			added = append(added, lines[i])
			i++
		}
		for j := 0; j < len(removed) || j < len(added); j++ {
			b.WriteString(`<tr class="change">`)
			writeCell(b, removed, j, "del")
			writeCell(b, added, j, "add")
			b.WriteString(`</tr>`)
		}
	}
}

func writeCell(b *strings.Builder, side []Line, j int, class string) {
	if j >= len(side) {
		b.WriteString(`<td class="ln"></td><td class="code empty"></td>`)
		return
	}
	l := side[j]
	no := l.OldNo
	if l.Kind == LineAdded {
		no = l.NewNo
	}
	fmt.Fprintf(b, `<td class="ln">%d</td><td class="code %s">%s</td>`, no, class, html.EscapeString(l.Text))
}

func lineClass(k LineKind) string {
	switch k {
	case LineAdded:
		return "add"
	case LineRemoved:
		return "del"
	}
	return "ctx"
}

func linePrefix(k LineKind) string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	}
	return " "
}

func lineNo(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}
