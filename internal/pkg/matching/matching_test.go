package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n ", nil},
		{"comma list", "Machine Learning, Web Dev", []string{"machine learning", "web dev"}},
		{"mixed delimiters", "nlp;  ROBOTICS |vision\ncompilers", []string{"nlp", "robotics", "vision", "compilers"}},
		{"dedup keeps first", "ML, ml , Ml", []string{"ml"}},
		{"collapses inner spaces", "deep    learning", []string{"deep learning"}},
		{"drops empty items", ",,go,,", []string{"go"}},
		{"folds diacritics", "Öğrenme, café", []string{"ogrenme", "cafe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestKeywordsMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ml", "ml", true},
		{"nlp", "nlp", true},
		{"machine learning", "learning", true},
		{"learning", "machine learning", true},
		{"ml", "html", false},                   // short keyword, containment not allowed
		{"ai", "computer vision and ai", false}, // short keyword, containment not allowed
		{"machine learning", "ml", false},
		{"web", "web development", true},
		{"graphs", "graph", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"~"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordsMatch(tt.a, tt.b, DefaultMinContainment))
		})
	}
}

func TestEngine_EmptyInterestsYieldBaseScore(t *testing.T) {
	e := NewEngine(DefaultWeights())
	projects := []ProjectText{
		{},
		{Title: "Compiler research", Description: "LLVM passes", TechStack: "C++", RequiredSkills: "compilers"},
		{Title: "Web development framework"},
	}

	for _, p := range projects {
		assert.Equal(t, DefaultBaseScore, e.Score("", p, "compilers, nlp"))
		assert.Equal(t, DefaultBaseScore, e.Score(" , ; ", p, "compilers, nlp"))
	}
}

func TestEngine_WorkedExample(t *testing.T) {
	e := NewEngine(DefaultWeights())
	project := ProjectText{
		Title:       "Campus portal",
		Description: "Build a web development framework for lab pages",
	}

	b := e.Explain("machine learning, web dev", project, "ML, NLP")

	// "machine learning" vs "ml": the shorter keyword is under the containment
	// minimum, so no faculty award. "web dev" occurs in the description.
	assert.Equal(t, 40, b.Score)
	assert.Empty(t, b.FacultyMatches)
	assert.Equal(t, []string{"web dev"}, b.ProjectMatches)
}

func TestEngine_BothSignalsPerKeyword(t *testing.T) {
	e := NewEngine(DefaultWeights())
	project := ProjectText{
		Title:          "Neural machine translation",
		TechStack:      "PyTorch",
		RequiredSkills: "python, nlp",
	}

	b := e.Explain("NLP, python, ml, robotics", project, "nlp, speech, ML")

	// nlp: faculty + project, python: project, ml: faculty (exact), robotics: none
	assert.Equal(t, 25+20+15+15+20, b.Score)
	assert.Equal(t, []string{"nlp", "ml"}, b.FacultyMatches)
	assert.Equal(t, []string{"nlp", "python"}, b.ProjectMatches)
}

func TestEngine_AwardOncePerSignal(t *testing.T) {
	e := NewEngine(DefaultWeights())
	project := ProjectText{Title: "graph graph graph", Description: "graph databases", TechStack: "graph"}

	// Repeated keywords collapse; repeated occurrences earn a single award.
	assert.Equal(t, 25+20+15, e.Score("graph, Graph, GRAPH", project, "graph theory, graph mining"))
}

func TestEngine_ShortKeywordMatchesWholeTokenOnly(t *testing.T) {
	e := NewEngine(DefaultWeights())

	assert.Equal(t, 25, e.Score("go", ProjectText{Title: "Django and Golang services"}, ""))
	assert.Equal(t, 40, e.Score("go", ProjectText{Title: "Services in Go (1.23)"}, ""))
}

func TestEngine_Uncapped(t *testing.T) {
	e := NewEngine(DefaultWeights())
	project := ProjectText{Description: "databases, distributed systems, consensus, storage engines"}

	score := e.Score("databases, distributed systems, consensus, storage engines", project,
		"databases, distributed systems, consensus, storage engines")

	assert.Equal(t, 25+4*(20+15), score)
	assert.Greater(t, score, 100)
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(DefaultWeights())
	project := ProjectText{Title: "Robot perception", Description: "SLAM and vision", TechStack: "ROS, C++", RequiredSkills: "linear algebra"}

	first := e.Score("vision, slam, algebra, ros", project, "robotics, computer vision")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, e.Score("vision, slam, algebra, ros", project, "robotics, computer vision"))
	}
}

func TestNewEngine_FallsBackOnInvalidWeights(t *testing.T) {
	e := NewEngine(Weights{Base: -1, FacultyMatch: -1, ProjectMatch: 10, MinContainment: 0})

	assert.Equal(t, Weights{Base: 25, FacultyMatch: 20, ProjectMatch: 10, MinContainment: 3}, e.Weights())
}
