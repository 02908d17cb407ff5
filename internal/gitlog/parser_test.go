package gitlog

import (
	"strings"
	"testing"
	"time"
)

func TestParseLog(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCommits int
		check       func(t *testing.T, commits []commitView)
	}{
		{
			name: "Headers with file lists",
			raw: strings.Join([]string{
				"abc123|Alice|1700000000|feat: add login",
				"auth.go",
				"auth_test.go",
				"",
				"def456|Bob|1700000100|fix: typo",
				"readme.md",
			}, "\n"),
			wantCommits: 2,
			check: func(t *testing.T, commits []commitView) {
				if commits[0].author != "Alice" || len(commits[0].files) != 2 {
					t.Errorf("first commit = %+v, want Alice with 2 files", commits[0])
				}
				if commits[1].files[0] != "readme.md" {
					t.Errorf("second commit files = %v, want [readme.md]", commits[1].files)
				}
			},
		},
		{
			name:        "Trailing record closed at end of stream",
			raw:         "abc123|Alice|1700000000|feat: add login\nauth.go",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if len(commits[0].files) != 1 {
					t.Errorf("files = %v, want [auth.go]", commits[0].files)
				}
			},
		},
		{
			name:        "Header with no files",
			raw:         "abc123|Alice|1700000000|feat: add login",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if len(commits[0].files) != 0 {
					t.Errorf("files = %v, want none", commits[0].files)
				}
			},
		},
		{
			name:        "Orphan lines before any header are discarded",
			raw:         "junk line\nmore junk\nabc123|Alice|1700000000|feat: x",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if len(commits[0].files) != 0 {
					t.Errorf("orphan lines leaked into files: %v", commits[0].files)
				}
			},
		},
		{
			name:        "Unexpected line inside a record becomes a file path",
			raw:         "abc123|Alice|1700000000|feat: x\nnot|a|header\nother.go",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if len(commits[0].files) != 2 || commits[0].files[0] != "not|a|header" {
					t.Errorf("files = %v, want the malformed line kept as a path", commits[0].files)
				}
			},
		},
		{
			name:        "Dot-git paths skipped",
			raw:         "abc123|Alice|1700000000|feat: x\n.git/hooks/pre-commit\nmain.go",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if len(commits[0].files) != 1 || commits[0].files[0] != "main.go" {
					t.Errorf("files = %v, want [main.go]", commits[0].files)
				}
			},
		},
		{
			name:        "Empty input",
			raw:         "",
			wantCommits: 0,
		},
		{
			name:        "Malformed timestamp keeps the record",
			raw:         "abc123|Alice|not-a-time|feat: x",
			wantCommits: 1,
			check: func(t *testing.T, commits []commitView) {
				if !commits[0].when.IsZero() {
					t.Errorf("timestamp = %v, want zero for malformed field", commits[0].when)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits := ParseLog(tt.raw)
			if len(commits) != tt.wantCommits {
				t.Fatalf("ParseLog() returned %d commits, want %d", len(commits), tt.wantCommits)
			}
			if tt.check != nil {
				views := make([]commitView, len(commits))
				for i, c := range commits {
					views[i] = commitView{author: c.Author, files: c.Files, when: c.Timestamp}
				}
				tt.check(t, views)
			}
		})
	}
}

func TestParseLogTimestamps(t *testing.T) {
	commits := ParseLog("abc|Alice|1700000000|msg")
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	want := time.Unix(1700000000, 0).UTC()
	if !commits[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", commits[0].Timestamp, want)
	}
}

type commitView struct {
	author string
	files  []string
	when   time.Time
}
