package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/timer"
)

type dirConfig string

func (c dirConfig) BasePath() string { return string(c) }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	p, err := store.Load(dirConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	svc := NewService(p, timer.New(nil, timer.WithoutTicker()))
	ts := httptest.NewServer(NewServer(svc).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func createTask(t *testing.T, ts *httptest.Server, body map[string]interface{}) TaskDTO {
	t.Helper()
	var dto TaskDTO
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", body, &dto)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: status %d", resp.StatusCode)
	}
	return dto
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: %v", body)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)

	created := createTask(t, ts, map[string]interface{}{
		"title":             "Write report",
		"priority":          "high",
		"estimated_minutes": 45,
		"category_name":     "Work",
	})
	if created.ID == "" {
		t.Fatalf("missing id: %+v", created)
	}
	if created.Status != "open" || created.Priority != "high" {
		t.Fatalf("unexpected defaults: %+v", created)
	}
	if created.Category == nil || created.Category.Name != "Work" {
		t.Fatalf("category not resolved: %+v", created.Category)
	}

	var fetched TaskDTO
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks/"+created.ID, nil, &fetched)
	if resp.StatusCode != http.StatusOK || fetched.Title != "Write report" {
		t.Fatalf("get: status %d, %+v", resp.StatusCode, fetched)
	}

	var patched TaskDTO
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+created.ID,
		map[string]interface{}{"status": "done", "actual_minutes": 50}, &patched)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d", resp.StatusCode)
	}
	if patched.Status != "done" || patched.ActualMinutes == nil || *patched.ActualMinutes != 50 {
		t.Fatalf("patch not applied: %+v", patched)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/tasks/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/tasks/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", map[string]interface{}{"title": "  "}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPatchNullClearsFocusRank(t *testing.T) {
	ts := newTestServer(t)

	created := createTask(t, ts, map[string]interface{}{
		"title":      "Ranked",
		"is_focus":   true,
		"focus_rank": 3,
	})

	var patched TaskDTO
	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+created.ID,
		map[string]interface{}{"focus_rank": nil}, &patched)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d", resp.StatusCode)
	}
	if patched.FocusRank != nil {
		t.Fatalf("focus_rank not cleared: %v", *patched.FocusRank)
	}
	if !patched.IsFocus {
		t.Fatalf("is_focus should be untouched")
	}
}

func TestListTasksFilters(t *testing.T) {
	ts := newTestServer(t)

	createTask(t, ts, map[string]interface{}{"title": "Pay invoices", "category_name": "Work"})
	createTask(t, ts, map[string]interface{}{"title": "Buy groceries", "category_name": "Personal"})
	done := createTask(t, ts, map[string]interface{}{"title": "Old chore"})
	doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+done.ID, map[string]interface{}{"status": "done"}, nil)

	var open []TaskDTO
	doJSON(t, http.MethodGet, ts.URL+"/api/tasks?status=open", nil, &open)
	if len(open) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(open))
	}

	var work []TaskDTO
	doJSON(t, http.MethodGet, ts.URL+"/api/tasks?category=work", nil, &work)
	if len(work) != 1 || work[0].Title != "Pay invoices" {
		t.Fatalf("category filter: %+v", work)
	}

	var found []TaskDTO
	doJSON(t, http.MethodGet, ts.URL+"/api/tasks?search=groc", nil, &found)
	if len(found) != 1 || found[0].Title != "Buy groceries" {
		t.Fatalf("search filter: %+v", found)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks?status=bogus", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", resp.StatusCode)
	}
}

func TestCategoriesSeededAndIdempotent(t *testing.T) {
	ts := newTestServer(t)

	var cats []CategoryDTO
	doJSON(t, http.MethodGet, ts.URL+"/api/categories", nil, &cats)
	if len(cats) != 2 {
		t.Fatalf("expected seeded categories, got %+v", cats)
	}

	var c CategoryDTO
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/categories", map[string]string{"name": "work"}, &c)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for existing category, got %d", resp.StatusCode)
	}
	if c.Name != "Work" {
		t.Fatalf("expected the existing category back, got %+v", c)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/categories", map[string]string{"name": "Deep Work", "color": "#336699"}, &c)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if c.Color != "#336699" {
		t.Fatalf("color not set: %+v", c)
	}
}

func TestAgendaFlow(t *testing.T) {
	ts := newTestServer(t)

	a := createTask(t, ts, map[string]interface{}{"title": "A", "estimated_minutes": 30})
	b := createTask(t, ts, map[string]interface{}{"title": "B", "estimated_minutes": 15})
	c := createTask(t, ts, map[string]interface{}{"title": "C", "estimated_minutes": 20})

	var ag AgendaDTO
	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/"+a.ID, map[string]int{"index": 0}, &ag)
	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/"+b.ID, map[string]int{"index": 1}, &ag)
	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/"+c.ID, map[string]int{"index": 99}, &ag)

	if got := titles(ag); got != "A,B,C" {
		t.Fatalf("agenda order: %s", got)
	}
	if ag.ReservedMinutes != 65 {
		t.Fatalf("reserved: %d", ag.ReservedMinutes)
	}
	if ag.Suggested == nil || ag.Suggested.Title != "B" {
		t.Fatalf("suggested: %+v", ag.Suggested)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/reorder", map[string]int{"from": 2, "to": 0}, &ag)
	if got := titles(ag); got != "C,A,B" {
		t.Fatalf("after reorder: %s", got)
	}

	// Moving an existing member re-inserts it at the new position.
	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/"+b.ID, map[string]int{"index": 0}, &ag)
	if got := titles(ag); got != "B,C,A" {
		t.Fatalf("after move: %s", got)
	}

	doJSON(t, http.MethodDelete, ts.URL+"/api/agenda/"+c.ID, nil, &ag)
	if got := titles(ag); got != "B,A" {
		t.Fatalf("after unfocus: %s", got)
	}
}

func titles(ag AgendaDTO) string {
	parts := make([]string, 0, len(ag.Tasks))
	for _, t := range ag.Tasks {
		parts = append(parts, t.Title)
	}
	return strings.Join(parts, ",")
}

func TestAgendaExport(t *testing.T) {
	ts := newTestServer(t)

	a := createTask(t, ts, map[string]interface{}{"title": "Estimated", "estimated_minutes": 25})
	doJSON(t, http.MethodPost, ts.URL+"/api/agenda/"+a.ID, map[string]int{"index": 0}, nil)

	resp, err := http.Get(ts.URL + "/api/agenda/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("content type: %s", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(buf.String(), "SUMMARY:Estimated") {
		t.Fatalf("event missing:\n%s", buf.String())
	}
}

func TestTimerEndpoints(t *testing.T) {
	ts := newTestServer(t)

	task := createTask(t, ts, map[string]interface{}{"title": "Deep work", "estimated_minutes": 50})

	var snap timer.Snapshot
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/timer/start", map[string]string{"task_id": task.ID}, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d", resp.StatusCode)
	}
	if snap.State != timer.Running || snap.TargetSeconds != 50*60 {
		t.Fatalf("snapshot: %+v", snap)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/timer/start", map[string]string{"task_id": task.ID}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for double start, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/timer/stop", nil, &snap)
	if resp.StatusCode != http.StatusOK || snap.State != timer.Idle {
		t.Fatalf("stop: status %d, %+v", resp.StatusCode, snap)
	}

	var stopped TaskDTO
	doJSON(t, http.MethodGet, ts.URL+"/api/tasks/"+task.ID, nil, &stopped)
	if stopped.ActualMinutes == nil || *stopped.ActualMinutes < 1 {
		t.Fatalf("minimum credit not logged: %+v", stopped.ActualMinutes)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/timer/start", map[string]string{"task_id": "no-such-task"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown task, got %d", resp.StatusCode)
	}
}

func TestInboxCalendar(t *testing.T) {
	ts := newTestServer(t)

	var dto TaskDTO
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/inbox/calendar", map[string]string{
		"uid":       "evt-1@example.com",
		"summary":   "Team sync",
		"start":     "2026-03-10T14:00:00Z",
		"end":       "2026-03-10T14:30:00Z",
		"attendees": "sam@example.com",
	}, &dto)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if dto.Source != "calendar_invite" {
		t.Fatalf("source: %q", dto.Source)
	}
	if dto.EventUID != "evt-1@example.com" {
		t.Fatalf("event uid: %q", dto.EventUID)
	}
	if dto.EstimatedMinutes == nil || *dto.EstimatedMinutes != 30 {
		t.Fatalf("estimate from duration: %v", dto.EstimatedMinutes)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/inbox/calendar", map[string]string{"summary": ""}, &dto)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("empty summary should fall back to a default title, got %d", resp.StatusCode)
	}
	if dto.Title != "Calendar event" {
		t.Fatalf("fallback title: %q", dto.Title)
	}
}

func TestErrorBodyShape(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/tasks/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected an error message")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
}
