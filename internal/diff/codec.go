// Package diff records, renders and reverts the edit history of pages.
//
// The codec half of the package is pure: it converts diff metadata to and
// from its stored JSON form and builds or renders unified patches between two
// page bodies. The Tracker persists records through the data package.
package diff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/data"

	"github.com/goccy/go-json"
	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines kept around each hunk.
const ContextLines = 3

// PageMetaData is the metadata of a page before and after one edit.
type PageMetaData struct {
	Start data.PageMeta `json:"start"`
	End   data.PageMeta `json:"end"`
}

type storedMetaData struct {
	Start *data.PageMeta `json:"start"`
	End   *data.PageMeta `json:"end"`
}

// EncodeMetaData serializes m into the text stored with a diff record.
func EncodeMetaData(m PageMetaData) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", &apperr.DecodeError{Err: fmt.Errorf("failed to encode page metadata: %w", err)}
	}
	return string(b), nil
}

// DecodeMetaData parses stored metadata. Malformed JSON or a document without
// both start and end fails with *apperr.DecodeError.
func DecodeMetaData(raw string) (PageMetaData, error) {
	var stored storedMetaData
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return PageMetaData{}, &apperr.DecodeError{Err: err}
	}
	if stored.Start == nil || stored.End == nil {
		return PageMetaData{}, &apperr.DecodeError{Err: errors.New("metadata must contain start and end")}
	}
	return PageMetaData{Start: *stored.Start, End: *stored.End}, nil
}

// CreatePatch returns a unified diff turning oldText into newText, or "" when
// they are equal. The output carries no timestamps, so equal inputs always
// give the same patch.
func CreatePatch(oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: "a",
		ToFile:   "b",
		Context:  ContextLines,
	})
	if err != nil {
		// Only the underlying writer can fail and a strings.Builder never does.
		return ""
	}
	return patch
}

// LineKind tags a line of a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// Line is one line of a hunk with its position on each side. A side the line
// does not exist on has number zero.
type Line struct {
	Kind  LineKind
	Text  string
	OldNo int
	NewNo int
}

// Hunk is one "@@" section of a unified diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// ParsePatch splits a unified diff into hunks. File headers and lines outside
// any hunk are ignored, as are "\ No newline at end of file" markers.
func ParsePatch(patch string) ([]Hunk, error) {
	var (
		hunks        []Hunk
		cur          *Hunk
		oldNo, newNo int
	)
	for _, raw := range strings.Split(patch, "\n") {
		if strings.HasPrefix(raw, "@@") {
			h, err := parseHunkHeader(raw)
			if err != nil {
				return nil, err
			}
			hunks = append(hunks, h)
			cur = &hunks[len(hunks)-1]
			oldNo, newNo = h.OldStart, h.NewStart
			continue
		}
		if cur == nil || raw == "" || strings.HasPrefix(raw, `\`) {
			continue
		}
		text := raw[1:]
		switch raw[0] {
		case ' ':
			cur.Lines = append(cur.Lines, Line{Kind: LineContext, Text: text, OldNo: oldNo, NewNo: newNo})
			oldNo++
			newNo++
		case '-':
			cur.Lines = append(cur.Lines, Line{Kind: LineRemoved, Text: text, OldNo: oldNo})
			oldNo++
		case '+':
			cur.Lines = append(cur.Lines, Line{Kind: LineAdded, Text: text, NewNo: newNo})
			newNo++
		}
	}
	return hunks, nil
}

// parseHunkHeader reads "@@ -l[,s] +l[,s] @@".
func parseHunkHeader(line string) (Hunk, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 || !strings.HasPrefix(fields[1], "-") || !strings.HasPrefix(fields[2], "+") {
		return Hunk{}, &apperr.DecodeError{Err: fmt.Errorf("malformed hunk header %q", line)}
	}
	oldStart, oldLines, err := parseRange(fields[1][1:])
	if err != nil {
		return Hunk{}, &apperr.DecodeError{Err: fmt.Errorf("malformed hunk header %q: %w", line, err)}
	}
	newStart, newLines, err := parseRange(fields[2][1:])
	if err != nil {
		return Hunk{}, &apperr.DecodeError{Err: fmt.Errorf("malformed hunk header %q: %w", line, err)}
	}
	// An empty side is reported as "l,0" with l the line before the hunk.
	if oldLines == 0 {
		oldStart++
	}
	if newLines == 0 {
		newStart++
	}
	return Hunk{OldStart: oldStart, OldLines: oldLines, NewStart: newStart, NewLines: newLines}, nil
}

func parseRange(s string) (start, count int, err error) {
	count = 1
	if i := strings.IndexByte(s, ','); i >= 0 {
		if count, err = strconv.Atoi(s[i+1:]); err != nil {
			return 0, 0, err
		}
		s = s[:i]
	}
	start, err = strconv.Atoi(s)
	return start, count, err
}
