package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/share"
	"github.com/Joseda-hg/taskminder/internal/store"
	"github.com/Joseda-hg/taskminder/internal/view"
	"github.com/charmbracelet/log"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"priorityClass": func(p model.Priority) string { return strings.ToLower(string(p)) },
}

var (
	indexTemplate = template.Must(template.New("index.tmpl").Funcs(templateFuncs).ParseFS(templateFS, "templates/index.tmpl"))
	taskTemplate  = template.Must(template.New("task.tmpl").Funcs(templateFuncs).ParseFS(templateFS, "templates/task.tmpl"))
)

const maxBodyBytes = 1 << 20

type Server struct {
	store  *store.Store
	logger *log.Logger
	now    func() time.Time
}

// taskResponse is a task plus its derived deadline status.
type taskResponse struct {
	model.Task
	DeadlineStatus string `json:"deadlineStatus"`
	DeadlineLabel  string `json:"deadlineLabel,omitempty"`
}

type taskRow struct {
	Task     model.Task
	Deadline string
	Status   string
}

func NewServer(s *store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{store: s, logger: logger, now: time.Now}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /tasks/{id}", s.taskHandler)
	mux.HandleFunc("GET /api/tasks", s.listTasksHandler)
	mux.HandleFunc("POST /api/tasks", s.createTaskHandler)
	mux.HandleFunc("GET /api/tasks/{id}", s.getTaskHandler)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.updateTaskHandler)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.deleteTaskHandler)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.toggleTaskHandler)
	mux.HandleFunc("DELETE /api/tasks/{id}/reminder", s.clearReminderHandler)
	mux.HandleFunc("POST /api/tasks/{id}/comments", s.addCommentHandler)
	mux.HandleFunc("GET /api/tasks/{id}/share", s.shareTaskHandler)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	all := s.store.Tasks()
	tasks := view.Derive(all, criteria)
	now := s.now()
	rows := make([]taskRow, 0, len(tasks))
	for _, task := range tasks {
		row := taskRow{Task: task}
		status := model.ClassifyDeadline(task.Deadline, task.Completed, now)
		row.Status = status.String()
		if task.Deadline != nil {
			row.Deadline = model.FormatDeadline(*task.Deadline, status)
		}
		rows = append(rows, row)
	}

	data := struct {
		Criteria   view.Criteria
		Total      int
		Rows       []taskRow
		Statuses   []model.StatusFilter
		Priorities []model.Priority
	}{
		Criteria:   criteria,
		Total:      len(all),
		Rows:       rows,
		Statuses:   model.StatusFilters,
		Priorities: model.Priorities,
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) taskHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}

	data := struct {
		Task     taskResponse
		WhatsApp string
	}{Task: s.respond(task), WhatsApp: share.WhatsAppURL(task)}

	if err := taskTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tasks := view.Derive(s.store.Tasks(), criteria)
	payload := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		payload = append(payload, s.respond(task))
	}
	writeJSON(w, http.StatusOK, payload)
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
	Reminder    string `json:"reminder"`
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input := store.TaskInput{Title: req.Title, Description: req.Description}
	if strings.TrimSpace(req.Priority) != "" {
		priority, err := model.ParsePriority(req.Priority)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		input.Priority = priority
	}
	if strings.TrimSpace(req.Deadline) != "" {
		deadline, err := model.ParseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		input.Deadline = &deadline
	}
	if strings.TrimSpace(req.Reminder) != "" {
		reminder, err := model.ParseReminder(req.Reminder, s.now().Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		input.Reminder = &reminder
	}

	task, ok := s.store.Create(r.Context(), input)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, errors.New("task rejected: title is required"))
		return
	}
	writeJSON(w, http.StatusCreated, s.respond(task))
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.respond(task))
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	patch, err := s.patchFromFields(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	task, ok := s.store.Update(r.Context(), id, patch)
	if !ok {
		// Ids are never reused, so a task absent now was absent or deleted
		// when the update ran.
		if _, exists := s.store.Get(id); !exists {
			writeError(w, http.StatusNotFound, fmt.Errorf("task %d not found", id))
			return
		}
		writeError(w, http.StatusUnprocessableEntity, errors.New("update rejected: title must not be blank and priority must be Low, Medium or High"))
		return
	}
	writeJSON(w, http.StatusOK, s.respond(task))
}

// patchFromFields maps a JSON object onto a patch. Identity and comments are
// not patchable and are ignored, as are unknown keys. A null deadline or
// reminder clears it.
func (s *Server) patchFromFields(fields map[string]json.RawMessage) (store.TaskPatch, error) {
	var patch store.TaskPatch

	if raw, ok := fields["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return patch, fmt.Errorf("title: %w", err)
		}
		patch.Title = &title
	}
	if raw, ok := fields["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			return patch, fmt.Errorf("description: %w", err)
		}
		patch.Description = &description
	}
	if raw, ok := fields["priority"]; ok {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return patch, fmt.Errorf("priority: %w", err)
		}
		priority, err := model.ParsePriority(value)
		if err != nil {
			priority = model.Priority(value)
		}
		patch.Priority = &priority
	}
	if raw, ok := fields["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			return patch, fmt.Errorf("completed: %w", err)
		}
		patch.Completed = &completed
	}
	if raw, ok := fields["deadline"]; ok {
		value, err := optionalString(raw)
		if err != nil {
			return patch, fmt.Errorf("deadline: %w", err)
		}
		if value == "" {
			patch.Deadline = store.Clear[model.Date]()
		} else {
			deadline, err := model.ParseDate(value)
			if err != nil {
				return patch, err
			}
			patch.Deadline = store.SetTo(deadline)
		}
	}
	if raw, ok := fields["reminder"]; ok {
		value, err := optionalString(raw)
		if err != nil {
			return patch, fmt.Errorf("reminder: %w", err)
		}
		if value == "" {
			patch.Reminder = store.Clear[time.Time]()
		} else {
			reminder, err := model.ParseReminder(value, s.now().Location())
			if err != nil {
				return patch, err
			}
			patch.Reminder = store.SetTo(reminder)
		}
	}
	return patch, nil
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if !s.store.Delete(r.Context(), id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	task, ok := s.store.ToggleCompletion(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, s.respond(task))
}

// clearReminderHandler dismisses a reminder. Clearing an absent reminder
// still succeeds.
func (s *Server) clearReminderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if !s.store.ClearReminder(r.Context(), id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	comment, ok := s.store.AddComment(r.Context(), task.ID, req.Text)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, errors.New("comment rejected: text is required"))
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) shareTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}

	payload := struct {
		Message  string `json:"message"`
		WhatsApp string `json:"whatsapp"`
		Email    string `json:"email,omitempty"`
	}{
		Message:  share.Message(task),
		WhatsApp: share.WhatsAppURL(task),
	}

	if r.URL.Query().Has("to") {
		email, err := share.EmailURL(r.URL.Query().Get("to"), task)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		payload.Email = email
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return model.Task{}, false
	}
	task, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %d not found", id))
		return model.Task{}, false
	}
	return task, true
}

func (s *Server) respond(task model.Task) taskResponse {
	status := model.ClassifyDeadline(task.Deadline, task.Completed, s.now())
	return taskResponse{Task: task, DeadlineStatus: status.String(), DeadlineLabel: status.Label()}
}

func criteriaFromRequest(r *http.Request) (view.Criteria, error) {
	query := r.URL.Query()
	return view.ParseCriteria(query.Get("status"), query.Get("priority"), query.Get("q"))
}

func parseID(r *http.Request) (int64, error) {
	value := strings.TrimSpace(r.PathValue("id"))
	if value == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func optionalString(raw json.RawMessage) (string, error) {
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return strings.TrimSpace(*value), nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
