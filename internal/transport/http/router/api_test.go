package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo/internal/core/session"
	"go-gin-todo/internal/domain"
	"go-gin-todo/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

/* ---------- 内存仓储，契约与 gorm 实现一致 ---------- */

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: make(map[string]*domain.User)} }

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(_ context.Context, _ string, _, _ int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return true, nil
		}
	}
	return false, nil
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	seq   int
}

func newMemTaskRepo() *memTaskRepo { return &memTaskRepo{tasks: make(map[string]*domain.Task)} }

func (r *memTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *t
	cp.CreatedAt = time.Date(2024, 1, 1, 0, 0, r.seq, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) FindOwned(_ context.Context, id, ownerID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) FindByOwnerAndStatus(_ context.Context, ownerID, status string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID && t.Status == status {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTaskRepo) ToggleStatus(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	if t.Status == domain.StatusActive {
		t.Status = domain.StatusDone
	} else {
		t.Status = domain.StatusActive
	}
	t.UpdatedAt = time.Now()
	return true, nil
}

func (r *memTaskRepo) UpdateOwned(_ context.Context, id, ownerID, title, description string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now()
	return true, nil
}

func (r *memTaskRepo) DeleteOwned(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

/* ---------- 简易浏览器：带 cookie 跟随请求 ---------- */

type browser struct {
	t   *testing.T
	e   *gin.Engine
	jar map[string]*http.Cookie
}

func newBrowser(t *testing.T, e *gin.Engine) *browser {
	return &browser{t: t, e: e, jar: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range b.jar {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.e.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.jar, ck.Name)
		} else {
			b.jar[ck.Name] = ck
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder { return b.do(http.MethodGet, path, nil) }

func newTestEngine(t *testing.T) (*gin.Engine, *memTaskRepo) {
	t.Helper()
	users := newMemUserRepo()
	tasks := newMemTaskRepo()
	store := session.NewMemoryStore(time.Hour)
	log := zap.NewNop()

	authSvc := service.NewAuthService(users, store, log)
	taskSvc := service.NewTaskService(tasks, log)
	e := NewAPIEngine(log, authSvc, taskSvc, store, APIOptions{
		SessionCookie: "todo_session",
		SessionTTL:    time.Hour,
	})
	return e, tasks
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	e, _ := newTestEngine(t)
	b := newBrowser(t, e)

	w := b.get("/tasks")
	if w.Code != http.StatusFound {
		t.Fatalf("GET /tasks = %d, want 302", w.Code)
	}
	loc := w.Header().Get("Location")
	if loc != "/login?next="+url.QueryEscape("/tasks") {
		t.Fatalf("Location = %q, want login redirect with next", loc)
	}
}

func TestFullTaskLifecycle(t *testing.T) {
	e, tasks := newTestEngine(t)
	b := newBrowser(t, e)

	// 注册
	w := b.do(http.MethodPost, "/register", url.Values{
		"name":      {"Alice"},
		"username":  {"alice"},
		"password":  {"p1"},
		"password2": {"p1"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("register: code=%d loc=%q", w.Code, w.Header().Get("Location"))
	}

	// 登录，带 next 回跳
	w = b.do(http.MethodPost, "/login?next=%2Ftasks", url.Values{
		"username": {"alice"},
		"password": {"p1"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/tasks" {
		t.Fatalf("login: code=%d loc=%q", w.Code, w.Header().Get("Location"))
	}
	if _, ok := b.jar["todo_session"]; !ok {
		t.Fatal("login did not set session cookie")
	}

	// 添加任务
	w = b.do(http.MethodPost, "/tasks/add", url.Values{
		"title":       {"Buy milk"},
		"description": {"2 liters"},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("add task: %d", w.Code)
	}
	w = b.get("/tasks")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Buy milk") {
		t.Fatalf("task list missing new task (code=%d)", w.Code)
	}

	var taskID string
	for id := range tasks.tasks {
		taskID = id
	}
	if taskID == "" {
		t.Fatal("task not persisted")
	}

	// 完成
	w = b.do(http.MethodPost, "/tasks/"+taskID+"/toggle", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("toggle: %d", w.Code)
	}
	w = b.get("/tasks")
	if !strings.Contains(w.Body.String(), "<del>Buy milk</del>") {
		t.Fatal("toggled task not shown as done")
	}

	// 删除
	w = b.do(http.MethodPost, "/tasks/"+taskID+"/delete", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("delete: %d", w.Code)
	}
	w = b.get("/tasks")
	if strings.Contains(w.Body.String(), "Buy milk") {
		t.Fatal("deleted task still listed")
	}

	// 退出后再访问要求重新登录
	w = b.get("/logout")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("logout: code=%d loc=%q", w.Code, w.Header().Get("Location"))
	}
	w = b.get("/tasks")
	if w.Code != http.StatusFound {
		t.Fatalf("GET /tasks after logout = %d, want 302", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e, _ := newTestEngine(t)
	b := newBrowser(t, e)

	b.do(http.MethodPost, "/register", url.Values{
		"name":      {"Alice"},
		"username":  {"alice"},
		"password":  {"p1"},
		"password2": {"p1"},
	})

	w := b.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("bad login: code=%d loc=%q", w.Code, w.Header().Get("Location"))
	}
	if _, ok := b.jar["todo_session"]; ok {
		t.Fatal("failed login set a session cookie")
	}
}

func TestTasksAreOwnerScoped(t *testing.T) {
	e, tasks := newTestEngine(t)

	alice := newBrowser(t, e)
	alice.do(http.MethodPost, "/register", url.Values{
		"name": {"Alice"}, "username": {"alice"}, "password": {"p1"}, "password2": {"p1"},
	})
	alice.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"p1"}})
	alice.do(http.MethodPost, "/tasks/add", url.Values{"title": {"Alice secret"}})

	var taskID string
	for id := range tasks.tasks {
		taskID = id
	}

	bob := newBrowser(t, e)
	bob.do(http.MethodPost, "/register", url.Values{
		"name": {"Bob"}, "username": {"bob"}, "password": {"p2"}, "password2": {"p2"},
	})
	bob.do(http.MethodPost, "/login", url.Values{"username": {"bob"}, "password": {"p2"}})

	// 别人的任务在列表里看不到
	w := bob.get("/tasks")
	if strings.Contains(w.Body.String(), "Alice secret") {
		t.Fatal("bob sees alice's task")
	}

	// 改别人的任务被当作不存在
	w = bob.do(http.MethodPost, "/tasks/"+taskID+"/toggle", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/tasks" {
		t.Fatalf("foreign toggle: code=%d loc=%q", w.Code, w.Header().Get("Location"))
	}
	if tasks.tasks[taskID].Status != domain.StatusActive {
		t.Fatal("foreign toggle changed task status")
	}
	w = bob.get("/tasks/" + taskID + "/edit")
	if w.Code != http.StatusFound {
		t.Fatalf("foreign edit form: %d, want redirect", w.Code)
	}
}

func TestEmptyTitleIsRejected(t *testing.T) {
	e, tasks := newTestEngine(t)
	b := newBrowser(t, e)

	b.do(http.MethodPost, "/register", url.Values{
		"name": {"Alice"}, "username": {"alice"}, "password": {"p1"}, "password2": {"p1"},
	})
	b.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"p1"}})

	w := b.do(http.MethodPost, "/tasks/add", url.Values{"title": {"   "}, "description": {"x"}})
	if w.Code != http.StatusFound {
		t.Fatalf("add with empty title: %d", w.Code)
	}
	if len(tasks.tasks) != 0 {
		t.Fatal("empty-title task was persisted")
	}
}
