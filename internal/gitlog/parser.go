package gitlog

import (
	"strconv"
	"strings"
	"time"

	"github.com/halvard/lore/pkg/models"
)

// fieldSep separates header fields in the pretty format.
const fieldSep = "|"

// headerFields is the number of fields in a header line: hash, author,
// unix timestamp, subject.
const headerFields = 4

// ParseLog parses raw `git log --name-only` output produced with the
// hash|author|timestamp|subject pretty format into commit records.
//
// The stream is record-delimited: one header line per commit followed by
// zero or more file-path lines until the next header. A header is
// recognized purely by containing the field separator the expected number
// of times; any other non-blank line is treated as a changed-file path of
// the current commit, or discarded when no commit is open yet. A trailing
// record is closed at end of stream.
func ParseLog(raw string) []models.Commit {
	var commits []models.Commit
	var current *models.Commit

	for _, line := range strings.Split(raw, "\n") {
		parts := strings.Split(line, fieldSep)
		if len(parts) == headerFields {
			if current != nil {
				commits = append(commits, *current)
			}
			current = &models.Commit{
				Hash:      strings.TrimSpace(parts[0]),
				Author:    strings.TrimSpace(parts[1]),
				Timestamp: parseUnix(parts[2]),
				Message:   strings.TrimSpace(parts[3]),
			}
			continue
		}

		path := strings.TrimSpace(line)
		if path == "" || current == nil {
			continue
		}
		if strings.HasPrefix(path, ".git/") {
			continue
		}
		current.Files = append(current.Files, path)
	}

	if current != nil {
		commits = append(commits, *current)
	}
	return commits
}

// parseUnix converts a unix-seconds field to a time. A malformed timestamp
// yields the zero time rather than dropping the record.
func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
