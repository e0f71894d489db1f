package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

// CanvasType selects which LMS list to fetch.
type CanvasType string

const (
	CanvasTodo   CanvasType = "todo"
	CanvasGrades CanvasType = "grades"
)

// Assignment is one entry of the LMS to-do list.
type Assignment struct {
	ID    string
	Name  string
	DueAt string
	Type  string
}

// GradeSet is the grade for one course.
type GradeSet struct {
	Course string
	Grade  string
	Score  float64
}

// NumericGrade returns the score truncated to an integer.
func (g GradeSet) NumericGrade() int {
	return int(g.Score)
}

// Canvas fetches the to-do list or the grades. domain and canvasKey are optional and
// omitted when empty. Any type other than grades fills the to-do slot.
func (c *Client) Canvas(ctx context.Context, typ CanvasType, domain, canvasKey string) bridge.Response {
	kind := bridge.KindLMSTodos
	if typ == CanvasGrades {
		kind = bridge.KindLMSGrades
	}
	body := c.bridge.NewBody().
		SetString("domain", domain).
		SetString("canvas_key", canvasKey).
		Set("type", string(typ))
	return c.fetch(ctx, kind, "/canvas", body)
}

func (c *Client) todos(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindLMSTodos, "/canvas", func(b bridge.Body) bridge.Body {
		return b.Set("type", string(CanvasTodo))
	})
}

func (c *Client) grades(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindLMSGrades, "/canvas", func(b bridge.Body) bridge.Body {
		return b.Set("type", string(CanvasGrades))
	})
}

func assignmentFrom(v any) (Assignment, bool) {
	if _, ok := v.(map[string]any); !ok {
		return Assignment{}, false
	}
	return Assignment{
		ID:    bridge.String(bridge.ByKey(v, "id")),
		Name:  bridge.String(bridge.ByKey(v, "name")),
		DueAt: bridge.String(bridge.ByKey(v, "due_at")),
		Type:  bridge.String(bridge.ByKey(v, "type")),
	}, true
}

func gradeSetFrom(v any) (GradeSet, bool) {
	if _, ok := v.(map[string]any); !ok {
		return GradeSet{}, false
	}
	return GradeSet{
		Course: bridge.String(bridge.ByKey(v, "course_name")),
		Grade:  bridge.String(bridge.ByKey(v, "grade")),
		Score:  bridge.Float(bridge.ByKey(v, "score")),
	}, true
}

// AssignmentCount returns the number of to-do entries.
func (c *Client) AssignmentCount(ctx context.Context) int {
	return bridge.ArrayLen(c.todos(ctx).Data)
}

// Assignment returns the to-do entry at index.
func (c *Client) Assignment(ctx context.Context, index int) (Assignment, bool) {
	return assignmentFrom(c.todos(ctx).Get(index))
}

// AssignmentByID returns the to-do entry whose id matches. Numeric ids compare by
// their decimal text.
func (c *Client) AssignmentByID(ctx context.Context, id string) (Assignment, bool) {
	return assignmentFrom(bridge.FindBy(c.todos(ctx).Data, "id", id))
}

// GradeSetCount returns the number of courses with a grade.
func (c *Client) GradeSetCount(ctx context.Context) int {
	return bridge.ArrayLen(c.grades(ctx).Data)
}

// GradeSet returns the course grade at index.
func (c *Client) GradeSet(ctx context.Context, index int) (GradeSet, bool) {
	return gradeSetFrom(c.grades(ctx).Get(index))
}

// GradeSetByCourse returns the grade for the named course.
func (c *Client) GradeSetByCourse(ctx context.Context, course string) (GradeSet, bool) {
	return gradeSetFrom(bridge.FindBy(c.grades(ctx).Data, "course_name", course))
}

// GradeScale maps letter grades to grade points.
type GradeScale map[string]float64

// DefaultGradeScale returns the common 4.0 scale.
func DefaultGradeScale() GradeScale {
	return GradeScale{
		"A+": 4.0, "A": 4.0, "A-": 3.7,
		"B+": 3.3, "B": 3.0, "B-": 2.7,
		"C+": 2.3, "C": 2.0, "C-": 1.7,
		"D+": 1.3, "D": 1.0, "D-": 0.7,
		"F": 0.0,
	}
}

// Points returns the points for letter. Letters not on the scale count as F.
func (s GradeScale) Points(letter string) float64 {
	if p, ok := s[letter]; ok {
		return p
	}
	return s["F"]
}

// GPAEstimate averages the grade points of every course. A nil scale uses
// DefaultGradeScale. It returns 0 when there are no grades.
func (c *Client) GPAEstimate(ctx context.Context, scale GradeScale) float64 {
	if scale == nil {
		scale = DefaultGradeScale()
	}

	grades, _ := c.grades(ctx).Data.([]any)
	if len(grades) == 0 {
		return 0
	}

	var total float64
	for _, g := range grades {
		total += scale.Points(bridge.String(bridge.ByKey(g, "grade")))
	}
	return total / float64(len(grades))
}
