package curriculum

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func lessonFile(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body)}
}

func TestLoaderReadsPrimaryLayout(t *testing.T) {
	primary := fstest.MapFS{
		"README.md":          lessonFile("# Day 99"),
		"01_introduction.md": lessonFile("# Day 1: should be ignored"),
		"03_operators.md":    lessonFile("# Day 3: Operators\n"),
		"02_variables.md":    lessonFile(sampleLesson),
		"31_bonus.md":        lessonFile("# Day 31"),
		"notes.txt":          lessonFile("ignored"),
		"assets/04_x.md":     lessonFile("# Day 4"),
	}

	lessons, err := NewLoader(primary, nil, zerolog.Nop()).LoadAll()

	require.NoError(t, err)
	require.Len(t, lessons, 3)
	require.Equal(t, []int{1, 2, 3}, []int{lessons[0].ID, lessons[1].ID, lessons[2].ID})
	require.Equal(t, DayOne(), lessons[0])
	require.Equal(t, "📘 Day 2", lessons[1].Title)
	require.Equal(t, "Day 3: Operators", lessons[2].Title)
}

func TestLoaderFallsBackToLegacyLayout(t *testing.T) {
	root := t.TempDir()
	legacyDir := filepath.Join(root, "legacy")
	require.NoError(t, os.MkdirAll(filepath.Join(legacyDir, "05_Day_Lists"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "05_Day_Lists", "05_lists.md"), []byte("# Day 5 - Lists\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "05_Day_Lists", "zz_extra.md"), []byte("# Day 5 - Other\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(legacyDir, "06_Day_Empty"), 0o755))

	loader := NewLoader(os.DirFS(filepath.Join(root, "missing")), os.DirFS(legacyDir), zerolog.Nop())
	lessons, err := loader.LoadAll()

	require.NoError(t, err)
	require.Len(t, lessons, 2)
	require.Equal(t, 1, lessons[0].ID)
	require.Equal(t, 5, lessons[1].ID)
	require.Equal(t, "Day 5 - Lists", lessons[1].Title)
}

func TestLoaderIgnoresLegacyWhenPrimaryExists(t *testing.T) {
	primary := fstest.MapFS{"04_strings.md": lessonFile("# Day 4\n")}
	legacy := fstest.MapFS{"05_Day_Lists/05_lists.md": lessonFile("# Day 5\n")}

	lessons, err := NewLoader(primary, legacy, zerolog.Nop()).LoadAll()

	require.NoError(t, err)
	require.Len(t, lessons, 2)
	require.Equal(t, 4, lessons[1].ID)
}

func TestLoaderWithoutContentReturnsBuiltInLesson(t *testing.T) {
	lessons, err := NewLoader(nil, nil, zerolog.Nop()).LoadAll()

	require.NoError(t, err)
	require.Len(t, lessons, 1)
	require.Equal(t, DayOneID, lessons[0].ID)
}

func TestLoaderIsIdempotent(t *testing.T) {
	primary := fstest.MapFS{
		"02_variables.md": lessonFile(sampleLesson),
		"10_loops.md":     lessonFile("# Day 10 - Loops\n\n## Exercises: Level 1\n\n1. Iterate over a list with a loop\n"),
	}
	loader := NewLoader(primary, nil, zerolog.Nop())

	first, err := loader.LoadAll()
	require.NoError(t, err)
	second, err := loader.LoadAll()
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestDayOneHasExercisesAtTwoLevels(t *testing.T) {
	doc := DayOne()

	require.Equal(t, DayOneID, doc.ID)
	require.Len(t, doc.Exercises.Level1, 4)
	require.Len(t, doc.Exercises.Level2, 4)
	require.Empty(t, doc.Exercises.Level3)
	require.Equal(t, "day1_level1_1", doc.Exercises.Level1[0].ID)
	require.LessOrEqual(t, len(doc.LearningObjectives), 5)
	require.LessOrEqual(t, runeLen(doc.Summary), 150)
}
