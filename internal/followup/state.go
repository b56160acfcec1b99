package followup

import (
	"maps"
	"slices"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// State is one of Hidden, AwaitingAnswers, Submitting or Resolved.
type State interface {
	state()
}

// Hidden means no follow-up dialog is shown.
type Hidden struct{}

// AwaitingAnswers means the dialog is open and the user may answer
// questions and request a refinement.
type AwaitingAnswers struct {
	// Message is the originally submitted text, resent on refinement.
	Message string

	// Questions are the questions of the current result, in order.
	Questions []model.FollowupQuestion

	// Answers holds the selected answers. Unanswered questions are absent.
	Answers map[string]model.Answer
}

// Submitting means a refinement request is in flight.
type Submitting struct {
	Message   string
	Questions []model.FollowupQuestion
	Answers   map[string]model.Answer
}

// Resolved means a refinement produced a conclusive result.
type Resolved struct {
	Report *scan.Report
}

func (Hidden) state()          {}
func (AwaitingAnswers) state() {}
func (Submitting) state()      {}
func (Resolved) state()        {}

// Event is an input to Transition.
type Event interface {
	event()
}

// ReportShown is fed when a new report is displayed.
type ReportShown struct {
	Report *scan.Report
}

// AnswerSelected records an answer to a question.
type AnswerSelected struct {
	QuestionID string
	Answer     model.Answer
}

// AnswerCleared removes the answer to a question.
type AnswerCleared struct {
	QuestionID string
}

// RefineRequested is the explicit refine action.
type RefineRequested struct{}

// RefineSucceeded carries the report of a successful refinement.
type RefineSucceeded struct {
	Report *scan.Report
}

// RefineFailed carries the error of a failed refinement.
type RefineFailed struct {
	Err error
}

func (ReportShown) event()     {}
func (AnswerSelected) event()  {}
func (AnswerCleared) event()   {}
func (RefineRequested) event() {}
func (RefineSucceeded) event() {}
func (RefineFailed) event()    {}

// Effect is an instruction for the presentation layer.
type Effect interface {
	effect()
}

// ShowPanel shows (or redraws) the dialog.
type ShowPanel struct {
	Questions []model.FollowupQuestion
	Answers   map[string]model.Answer
}

// HidePanel hides the dialog.
type HidePanel struct{}

// SubmitRefinement asks for the message to be resubmitted with answers.
type SubmitRefinement struct {
	Message string
	Answers map[string]model.Answer
}

// ReplaceReport replaces the displayed report wholesale.
type ReplaceReport struct {
	Report *scan.Report
}

// SetRefineEnabled enables or disables the refine action.
type SetRefineEnabled struct {
	Enabled bool
}

// ReportFailure surfaces a refinement failure to the user.
type ReportFailure struct {
	Err error
}

func (ShowPanel) effect()        {}
func (HidePanel) effect()        {}
func (SubmitRefinement) effect() {}
func (ReplaceReport) effect()    {}
func (SetRefineEnabled) effect() {}
func (ReportFailure) effect()    {}

// Transition returns the state that follows s on ev and the effects to
// perform. It does not modify its arguments.
func Transition(s State, ev Event) (State, []Effect) {
	switch st := s.(type) {
	case Hidden, Resolved:
		if e, ok := ev.(ReportShown); ok {
			return show(e.Report)
		}

	case AwaitingAnswers:
		switch e := ev.(type) {
		case ReportShown:
			return show(e.Report)

		case AnswerSelected:
			if !asked(st.Questions, e.QuestionID) || (e.Answer != model.AnswerYes && e.Answer != model.AnswerNo) {
				break
			}
			next := st.with(func(a map[string]model.Answer) { a[e.QuestionID] = e.Answer })
			return next, []Effect{ShowPanel{Questions: next.Questions, Answers: maps.Clone(next.Answers)}}

		case AnswerCleared:
			if _, ok := st.Answers[e.QuestionID]; !ok {
				break
			}
			next := st.with(func(a map[string]model.Answer) { delete(a, e.QuestionID) })
			return next, []Effect{ShowPanel{Questions: next.Questions, Answers: maps.Clone(next.Answers)}}

		case RefineRequested:
			next := Submitting(st.with(nil))
			return next, []Effect{
				SetRefineEnabled{Enabled: false},
				SubmitRefinement{Message: next.Message, Answers: maps.Clone(next.Answers)},
			}
		}

	case Submitting:
		switch e := ev.(type) {
		case RefineSucceeded:
			if e.Report == nil {
				break
			}
			if e.Report.NeedsFollowup() {
				next := awaiting(e.Report)
				return next, []Effect{
					ReplaceReport{Report: e.Report},
					ShowPanel{Questions: next.Questions, Answers: map[string]model.Answer{}},
					SetRefineEnabled{Enabled: true},
				}
			}
			return Resolved{Report: e.Report}, []Effect{
				ReplaceReport{Report: e.Report},
				HidePanel{},
			}

		case RefineFailed:
			next := AwaitingAnswers(st)
			next = next.with(nil)
			return next, []Effect{
				ReportFailure{Err: &RefinementError{Err: e.Err}},
				SetRefineEnabled{Enabled: true},
			}
		}
	}

	return s, nil
}

// show handles a newly displayed report.
func show(r *scan.Report) (State, []Effect) {
	if r == nil || !r.NeedsFollowup() {
		return Hidden{}, []Effect{HidePanel{}}
	}
	next := awaiting(r)
	return next, []Effect{
		ShowPanel{Questions: next.Questions, Answers: map[string]model.Answer{}},
		SetRefineEnabled{Enabled: true},
	}
}

// awaiting opens the dialog for r with no answers selected.
func awaiting(r *scan.Report) AwaitingAnswers {
	return AwaitingAnswers{
		Message:   r.Message,
		Questions: slices.Clone(r.Result.FollowupQuestions),
		Answers:   map[string]model.Answer{},
	}
}

// with returns a copy of s whose answers were passed through edit.
func (s AwaitingAnswers) with(edit func(map[string]model.Answer)) AwaitingAnswers {
	answers := maps.Clone(s.Answers)
	if answers == nil {
		answers = map[string]model.Answer{}
	}
	if edit != nil {
		edit(answers)
	}
	return AwaitingAnswers{
		Message:   s.Message,
		Questions: slices.Clone(s.Questions),
		Answers:   answers,
	}
}

// asked reports whether id is one of questions.
func asked(questions []model.FollowupQuestion, id string) bool {
	return slices.ContainsFunc(questions, func(q model.FollowupQuestion) bool {
		return q.ID == id
	})
}
