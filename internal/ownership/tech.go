package ownership

import (
	"path/filepath"
	"strings"
)

// technology describes how file paths map onto one technology tag.
type technology struct {
	name      string
	exts      []string
	filenames []string
}

// techTable is the fixed extension/filename table. A file matching no
// entry contributes to no technology bucket.
var techTable = []technology{
	{name: "Python", exts: []string{".py"}},
	{name: "JavaScript", exts: []string{".js", ".jsx"}},
	{name: "TypeScript", exts: []string{".ts", ".tsx"}},
	{name: "Java", exts: []string{".java"}},
	{name: "C++", exts: []string{".cpp", ".cc", ".cxx"}},
	{name: "C", exts: []string{".c"}},
	{name: "C#", exts: []string{".cs"}},
	{name: "Go", exts: []string{".go"}},
	{name: "Ruby", exts: []string{".rb"}},
	{name: "PHP", exts: []string{".php"}},
	{name: "HTML", exts: []string{".html", ".htm"}},
	{name: "CSS", exts: []string{".css", ".scss", ".sass"}},
	{name: "SQL", exts: []string{".sql"}},
	{name: "Shell", exts: []string{".sh", ".bash"}},
	{name: "Docker", exts: []string{".dockerfile"}, filenames: []string{"Dockerfile"}},
	{name: "YAML", exts: []string{".yml", ".yaml"}},
	{name: "JSON", exts: []string{".json"}},
	{name: "XML", exts: []string{".xml"}},
}

// TechnologyFor maps a file path to zero or one technology tag.
func TechnologyFor(path string) (string, bool) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))
	for _, tech := range techTable {
		for _, name := range tech.filenames {
			if base == name {
				return tech.name, true
			}
		}
		for _, e := range tech.exts {
			if ext == e {
				return tech.name, true
			}
		}
	}
	return "", false
}

// Technologies returns all known technology tags in table order.
func Technologies() []string {
	names := make([]string, len(techTable))
	for i, tech := range techTable {
		names[i] = tech.name
	}
	return names
}
