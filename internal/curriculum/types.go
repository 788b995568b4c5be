package curriculum

// BlockType enumerates the kinds of content blocks produced by the parser.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockCode      BlockType = "code"
	BlockList      BlockType = "list"
	BlockTable     BlockType = "table"
	BlockImage     BlockType = "image"
	BlockQuote     BlockType = "blockquote"
)

// Block is one typed unit of lesson content in document order.
type Block struct {
	Type     BlockType  `json:"type"`
	Level    int        `json:"level,omitempty"`
	Content  string     `json:"content,omitempty"`
	Language string     `json:"language,omitempty"`
	Runnable bool       `json:"runnable,omitempty"`
	Ordered  bool       `json:"ordered,omitempty"`
	Items    []string   `json:"items,omitempty"`
	Headers  []string   `json:"headers,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
	Alt      string     `json:"alt,omitempty"`
	Src      string     `json:"src,omitempty"`
}

// Exercise is a numbered task extracted from a lesson's exercises section.
type Exercise struct {
	ID          string   `json:"id"`
	Level       int      `json:"level"`
	Order       int      `json:"order"`
	Description string   `json:"description"`
	StarterCode string   `json:"starter_code"`
	Hints       []string `json:"hints"`
	Tags        []string `json:"tags"`
}

// ExerciseSet buckets exercises by difficulty level.
type ExerciseSet struct {
	Level1 []Exercise `json:"level1"`
	Level2 []Exercise `json:"level2"`
	Level3 []Exercise `json:"level3"`
}

// newExerciseSet returns a set whose empty levels encode as [] rather than null.
func newExerciseSet() ExerciseSet {
	return ExerciseSet{Level1: []Exercise{}, Level2: []Exercise{}, Level3: []Exercise{}}
}

// Total returns the number of exercises across all levels.
func (s ExerciseSet) Total() int {
	return len(s.Level1) + len(s.Level2) + len(s.Level3)
}

// ByLevel returns the bucket for the given level, or nil for an unknown level.
func (s ExerciseSet) ByLevel(level int) []Exercise {
	switch level {
	case 1:
		return s.Level1
	case 2:
		return s.Level2
	case 3:
		return s.Level3
	default:
		return nil
	}
}

func (s *ExerciseSet) add(exercise Exercise) {
	switch exercise.Level {
	case 1:
		s.Level1 = append(s.Level1, exercise)
	case 2:
		s.Level2 = append(s.Level2, exercise)
	case 3:
		s.Level3 = append(s.Level3, exercise)
	}
}

// LessonDocument is the structured form of one lesson source file.
type LessonDocument struct {
	ID                 int         `json:"id"`
	Order              int         `json:"order"`
	Title              string      `json:"title"`
	Summary            string      `json:"summary"`
	EstimatedTime      string      `json:"estimated_time"`
	RawText            string      `json:"raw_text"`
	Blocks             []Block     `json:"blocks"`
	Exercises          ExerciseSet `json:"exercises"`
	LearningObjectives []string    `json:"learning_objectives"`
}

// GeneratedChallenge is a level 3 challenge built from the template table.
type GeneratedChallenge struct {
	ID                string   `json:"id"`
	Level             int      `json:"level"`
	Order             int      `json:"order"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	StarterCode       string   `json:"starter_code"`
	ReferenceAnswer   string   `json:"reference_answer"`
	AnswerExplanation string   `json:"answer_explanation"`
	Hints             []string `json:"hints"`
	Tags              []string `json:"tags"`
	GradingCriteria   []string `json:"grading_criteria"`
}
