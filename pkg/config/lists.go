package config

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
)

// PatternList is an ordered list of non-empty glob patterns.
type PatternList []string

// List is one resolved allow or deny list.
type List struct {
	Patterns PatternList

	// EnvConfigured is set when the environment value was non-empty,
	// even if it held no usable token.
	EnvConfigured bool

	// HadFileEntries is set when the list file had at least one
	// usable line.
	HadFileEntries bool
}

// Configured reports whether either source supplied the list.
func (l List) Configured() bool {
	return l.EnvConfigured || l.HadFileEntries
}

// ListSource loads pattern lists from an environment value and a
// line-oriented file.
type ListSource struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewListSource reads list files from fs. A nil fs uses the OS.
func NewListSource(fs afero.Fs, logger *slog.Logger) *ListSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListSource{fs: fs, logger: logger.With("component", "config")}
}

// Load merges envValue and the file at filePath, env patterns first.
// A missing or unreadable file contributes nothing.
func (s *ListSource) Load(envValue, filePath string) List {
	l := List{
		Patterns:      ParseEnvList(envValue),
		EnvConfigured: envValue != "",
	}
	if filePath == "" {
		return l
	}
	filePatterns, err := s.readFile(filePath)
	if err != nil {
		s.logger.Debug("list file unavailable", "path", filePath, "error", err)
		return l
	}
	l.Patterns = append(l.Patterns, filePatterns...)
	l.HadFileEntries = len(filePatterns) > 0
	return l
}

func (s *ListSource) readFile(path string) (PatternList, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errx.Wrap(ErrReadList, err)
	}
	return ParseFileList(data), nil
}

// ParseEnvList splits a colon-separated value, trimming each token and
// dropping empty ones.
func ParseEnvList(v string) PatternList {
	var out PatternList
	for _, tok := range strings.Split(v, ":") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ParseFileList returns one pattern per trimmed line, skipping blank
// lines and '#' comments.
func ParseFileList(data []byte) PatternList {
	var out PatternList
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
