// Package matching computes the relevance score used to rank project openings
// for a student. The score is a ranking heuristic only; nothing gates access on it.
package matching

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultBaseScore          = 25
	DefaultFacultyMatchWeight = 20
	DefaultProjectMatchWeight = 15
	// DefaultMinContainment is the shortest keyword length (in runes) allowed to
	// match by containment. Shorter keywords only match exactly.
	DefaultMinContainment = 3
)

// Weights configures the scoring constants
type Weights struct {
	Base           int `yaml:"base_score" env:"MATCH_BASE_SCORE"`
	FacultyMatch   int `yaml:"faculty_match" env:"MATCH_FACULTY_WEIGHT"`
	ProjectMatch   int `yaml:"project_match" env:"MATCH_PROJECT_WEIGHT"`
	MinContainment int `yaml:"min_containment" env:"MATCH_MIN_CONTAINMENT"`
}

// DefaultWeights returns the standard scoring constants
func DefaultWeights() Weights {
	return Weights{
		Base:           DefaultBaseScore,
		FacultyMatch:   DefaultFacultyMatchWeight,
		ProjectMatch:   DefaultProjectMatchWeight,
		MinContainment: DefaultMinContainment,
	}
}

// ProjectText is the searchable content of a project opening
type ProjectText struct {
	Title          string
	Description    string
	TechStack      string
	RequiredSkills string
}

// Breakdown explains how a score was reached
type Breakdown struct {
	Score          int      `json:"score"`
	BaseScore      int      `json:"baseScore"`
	FacultyMatches []string `json:"facultyMatches"`
	ProjectMatches []string `json:"projectMatches"`
}

// Engine scores students against project openings. It holds no state beyond
// its weights and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine. Negative weights fall back to the defaults.
func NewEngine(w Weights) *Engine {
	def := DefaultWeights()
	if w.Base < 0 {
		w.Base = def.Base
	}
	if w.FacultyMatch < 0 {
		w.FacultyMatch = def.FacultyMatch
	}
	if w.ProjectMatch < 0 {
		w.ProjectMatch = def.ProjectMatch
	}
	if w.MinContainment <= 0 {
		w.MinContainment = def.MinContainment
	}
	return &Engine{weights: w}
}

// Weights returns the engine's effective weights
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score returns the relevance of project to a student with the given interests.
// facultyInterests are the research interests of the project's author.
func (e *Engine) Score(studentInterests string, project ProjectText, facultyInterests string) int {
	return e.Explain(studentInterests, project, facultyInterests).Score
}

// Explain scores like Score and reports which student keywords earned each award.
func (e *Engine) Explain(studentInterests string, project ProjectText, facultyInterests string) Breakdown {
	b := Breakdown{
		Score:          e.weights.Base,
		BaseScore:      e.weights.Base,
		FacultyMatches: []string{},
		ProjectMatches: []string{},
	}

	student := Normalize(studentInterests)
	if len(student) == 0 {
		return b
	}

	faculty := Normalize(facultyInterests)
	doc := newDocument(project.Title, project.Description, project.TechStack, project.RequiredSkills)

	for _, kw := range student {
		if e.matchesAny(kw, faculty) {
			b.Score += e.weights.FacultyMatch
			b.FacultyMatches = append(b.FacultyMatches, kw)
		}
		if e.occursIn(kw, doc) {
			b.Score += e.weights.ProjectMatch
			b.ProjectMatches = append(b.ProjectMatches, kw)
		}
	}
	return b
}

// KeywordsMatch applies the containment rule to two normalized keywords: equal
// keywords always match; otherwise one must contain the other and the shorter
// must be at least minContainment runes long.
func KeywordsMatch(a, b string, minContainment int) bool {
	if a == b {
		return a != ""
	}
	shorter, longer := a, b
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) < minContainment {
		return false
	}
	return strings.Contains(longer, shorter)
}

func (e *Engine) matchesAny(kw string, candidates []string) bool {
	for _, c := range candidates {
		if KeywordsMatch(kw, c, e.weights.MinContainment) {
			return true
		}
	}
	return false
}

func (e *Engine) occursIn(kw string, doc document) bool {
	if utf8.RuneCountInString(kw) >= e.weights.MinContainment {
		return strings.Contains(doc.text, kw)
	}
	_, ok := doc.tokens[kw]
	return ok
}
