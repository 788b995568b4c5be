package curriculum

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// MinLessonID and MaxLessonID bound the curriculum.
	MinLessonID = 1
	MaxLessonID = 30
)

var (
	primaryFilePattern = regexp.MustCompile(`^(\d+)_.*\.md$`)
	legacyDirPattern   = regexp.MustCompile(`^(\d+)_Day_`)
)

// Loader reads lesson documents from a content directory. The primary
// layout is one <NN>_<name>.md file per lesson; when the primary directory
// does not exist the legacy <NN>_Day_<name>/ folder layout is searched.
type Loader struct {
	primary fs.FS
	legacy  fs.FS
	logger  zerolog.Logger
}

// NewLoader constructs a Loader. Either filesystem may be nil.
func NewLoader(primary, legacy fs.FS, logger zerolog.Logger) *Loader {
	return &Loader{
		primary: primary,
		legacy:  legacy,
		logger:  logger.With().Str("component", "curriculum_loader").Logger(),
	}
}

type lessonSource struct {
	id   int
	fsys fs.FS
	path string
}

// LoadAll parses every lesson it can find, prepends the built-in first
// lesson and returns the set ordered by lesson order. Unreadable files are
// skipped; only an unreadable content directory is an error.
func (l *Loader) LoadAll() ([]LessonDocument, error) {
	sources, err := l.discover()
	if err != nil {
		return nil, err
	}

	lessons := make([]LessonDocument, 0, len(sources)+1)
	lessons = append(lessons, DayOne())
	for _, src := range sources {
		data, err := fs.ReadFile(src.fsys, src.path)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", src.path).Int("lesson_id", src.id).Msg("skip unreadable lesson file")
			continue
		}
		lessons = append(lessons, Parse(string(data), src.id))
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})

	l.logger.Info().Int("lessons", len(lessons)).Msg("curriculum loaded")
	return lessons, nil
}

func (l *Loader) discover() ([]lessonSource, error) {
	if l.primary != nil {
		entries, err := fs.ReadDir(l.primary, ".")
		switch {
		case err == nil:
			return l.primarySources(entries), nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read content directory: %w", err)
		}
		l.logger.Warn().Msg("content directory missing, trying legacy layout")
	}

	if l.legacy == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(l.legacy, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn().Msg("legacy content directory missing, only the built-in lesson is available")
			return nil, nil
		}
		return nil, fmt.Errorf("read legacy content directory: %w", err)
	}
	return l.legacySources(entries), nil
}

func (l *Loader) primarySources(entries []fs.DirEntry) []lessonSource {
	seen := make(map[int]bool)
	sources := make([]lessonSource, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.EqualFold(name, "README.md") {
			continue
		}
		m := primaryFilePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id, ok := l.acceptID(m[1], name, seen)
		if !ok {
			continue
		}
		sources = append(sources, lessonSource{id: id, fsys: l.primary, path: name})
	}
	return sources
}

func (l *Loader) legacySources(entries []fs.DirEntry) []lessonSource {
	seen := make(map[int]bool)
	sources := make([]lessonSource, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			continue
		}
		m := legacyDirPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id, ok := l.acceptID(m[1], name, seen)
		if !ok {
			continue
		}

		files, err := fs.ReadDir(l.legacy, name)
		if err != nil {
			l.logger.Warn().Err(err).Str("dir", name).Msg("skip unreadable lesson folder")
			continue
		}
		for _, file := range files {
			if !file.IsDir() && strings.HasSuffix(file.Name(), ".md") {
				sources = append(sources, lessonSource{id: id, fsys: l.legacy, path: path.Join(name, file.Name())})
				break
			}
		}
	}
	return sources
}

func (l *Loader) acceptID(digits, name string, seen map[int]bool) (int, bool) {
	id, err := strconv.Atoi(digits)
	if err != nil || id < MinLessonID || id > MaxLessonID {
		return 0, false
	}
	if id == DayOneID {
		return 0, false
	}
	if seen[id] {
		l.logger.Warn().Str("file", name).Int("lesson_id", id).Msg("duplicate lesson id, keeping the first file")
		return 0, false
	}
	seen[id] = true
	return id, true
}
