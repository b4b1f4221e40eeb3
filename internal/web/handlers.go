package web

import (
	"net/http"

	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/pkg/types"
)

type roleView struct {
	Role  types.Role
	Title string
}

type startView struct {
	UserID    string
	Folder    string
	Directory string
	Role      types.Role
	Roles     []roleView
	Error     error
	Advisory  error
}

type optionView struct {
	Value   types.Likert
	Label   string
	Checked bool
}

type questionView struct {
	Number  int
	ID      string
	Stem    string
	Item    string
	Options []optionView
}

type questionnaireView struct {
	Instrument types.Instrument
	UserID     string
	Directory  string
	Folder     string
	Questions  []questionView
	Error      error
	Advisory   error
}

type doneView struct {
	UserID    string
	Directory string
	Existing  bool
	Error     error
	Advisory  error
}

func (s *Server) startView(e *entry, folder string) startView {
	v := startView{
		UserID:   e.ctrl.UserID(),
		Folder:   folder,
		Role:     e.ctrl.Role(),
		Error:    e.ctrl.Err(),
		Advisory: e.ctrl.Advisory(),
	}
	if dir := e.ctrl.Directory(); dir != nil {
		v.Directory = dir.Name()
	}
	if v.Folder == "" && v.Directory == "" {
		v.Folder = s.cfg.DefaultFolder
	}
	for _, in := range s.cfg.Instruments.All() {
		v.Roles = append(v.Roles, roleView{Role: in.Role, Title: in.Title})
	}
	return v
}

func questionnaireFor(ctrl *session.Controller, folder string) questionnaireView {
	in := ctrl.Instrument()
	v := questionnaireView{
		Instrument: in,
		UserID:     ctrl.UserID(),
		Folder:     folder,
		Error:      ctrl.Err(),
		Advisory:   ctrl.Advisory(),
	}
	if dir := ctrl.Directory(); dir != nil {
		v.Directory = dir.Name()
	}
	resp := ctrl.Responses()
	for i, q := range in.Questions {
		qv := questionView{Number: i + 1, ID: q.ID, Stem: q.Stem(), Item: q.Item()}
		current, _ := resp.Answer(q.ID)
		for _, l := range types.LikertScale {
			qv.Options = append(qv.Options, optionView{Value: l, Label: l.Label(), Checked: l == current})
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}

// handleStart shows the user ID, folder and role form.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if page := pageFor(e.ctrl); page != "/" {
		redirect(w, r, page)
		return
	}
	s.render(w, "start", http.StatusOK, s.startView(e, ""))
}

// handleBegin applies the start form. The "select" action only picks the
// folder; a role button also runs the existence check.
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if page := pageFor(e.ctrl); page != "/" {
		redirect(w, r, page)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	folder := r.PostForm.Get("folder")

	if err := e.ctrl.SetUserID(r.PostForm.Get("user_id")); err != nil {
		s.render(w, "start", http.StatusUnprocessableEntity, s.startView(e, folder))
		return
	}

	if r.PostForm.Get("action") == "select" {
		status := http.StatusOK
		if err := e.ctrl.SelectDirectory(ctx, folder); err != nil {
			status = http.StatusUnprocessableEntity
		}
		s.render(w, "start", status, s.startView(e, folder))
		return
	}

	if folder != "" {
		if err := e.ctrl.SelectDirectory(ctx, folder); err != nil {
			s.render(w, "start", http.StatusUnprocessableEntity, s.startView(e, folder))
			return
		}
	}

	role, err := types.ParseRole(r.PostForm.Get("role"))
	if err == nil {
		err = e.ctrl.SetRole(role)
	}
	if err == nil {
		err = e.ctrl.Begin(ctx)
	}
	if err != nil {
		s.render(w, "start", http.StatusUnprocessableEntity, s.startView(e, folder))
		return
	}
	redirect(w, r, pageFor(e.ctrl))
}

// handleDirectory re-selects the folder from the questionnaire page.
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if e.ctrl.State() != session.Collecting {
		redirect(w, r, pageFor(e.ctrl))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	folder := r.PostForm.Get("folder")
	status := http.StatusOK
	if err := e.ctrl.SelectDirectory(r.Context(), folder); err != nil {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, "questionnaire", status, questionnaireFor(e.ctrl, folder))
}

// handleQuestionnaire shows the questions.
func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if e.ctrl.State() != session.Collecting {
		redirect(w, r, pageFor(e.ctrl))
		return
	}
	s.render(w, "questionnaire", http.StatusOK, questionnaireFor(e.ctrl, ""))
}

// handleSubmit records the posted answers and saves once complete.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if e.ctrl.State() != session.Collecting {
		redirect(w, r, pageFor(e.ctrl))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	for _, q := range e.ctrl.Instrument().Questions {
		v := r.PostForm.Get(q.ID)
		if v == "" {
			continue
		}
		if err := e.ctrl.Answer(q.ID, types.Likert(v)); err != nil {
			s.render(w, "questionnaire", http.StatusUnprocessableEntity, questionnaireFor(e.ctrl, ""))
			return
		}
	}
	if err := e.ctrl.Submit(r.Context()); err != nil {
		s.render(w, "questionnaire", http.StatusUnprocessableEntity, questionnaireFor(e.ctrl, ""))
		return
	}
	redirect(w, r, "/done")
}

// handleDone thanks the respondent.
func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if !e.ctrl.State().Complete() {
		redirect(w, r, pageFor(e.ctrl))
		return
	}
	v := doneView{
		UserID:   e.completed,
		Existing: e.ctrl.State() == session.AlreadyComplete,
	}
	if dir := e.ctrl.Directory(); dir != nil {
		v.Directory = dir.Name()
	}
	s.render(w, "done", http.StatusOK, v)
}

// handleRestart starts a new respondent in the same browser.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if e.ctrl.State().Complete() {
		_ = e.ctrl.Restart()
		e.completed = ""
	}
	redirect(w, r, "/")
}
