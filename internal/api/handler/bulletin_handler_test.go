package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/filter"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

type stubBulletinService struct {
	createFn func(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error)
	updateFn func(ctx context.Context, id string, patch ports.BulletinPatch, sess ports.Session) (*domain.Bulletin, []string, error)
	deleteFn func(ctx context.Context, id string, sess ports.Session) error
	getFn    func(ctx context.Context, id string) (*domain.Bulletin, error)
	listFn   func(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error)
}

func (s *stubBulletinService) Create(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error) {
	return s.createFn(ctx, input, sess)
}

func (s *stubBulletinService) Update(ctx context.Context, id string, patch ports.BulletinPatch, sess ports.Session) (*domain.Bulletin, []string, error) {
	return s.updateFn(ctx, id, patch, sess)
}

func (s *stubBulletinService) SoftDelete(ctx context.Context, id string, sess ports.Session) error {
	return s.deleteFn(ctx, id, sess)
}

func (s *stubBulletinService) Get(ctx context.Context, id string) (*domain.Bulletin, error) {
	return s.getFn(ctx, id)
}

func (s *stubBulletinService) ListVisible(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error) {
	return s.listFn(ctx, sel, now)
}

func activeBulletin(id string) *domain.Bulletin {
	return &domain.Bulletin{
		ID:          id,
		Title:       "Forklift Operator",
		Category:    domain.CategoryJob,
		AdvisorName: "Jorge",
		PostedBy:    "jorge",
		DatePosted:  time.Now(),
		IsActive:    true,
	}
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, username, displayName, role string) {
	c.Set("username", username)
	c.Set("display_name", displayName)
	c.Set("role", role)
}

func TestBulletinHandler_List_ForwardsSelection(t *testing.T) {
	var gotSel filter.Selection
	h := NewBulletinHandler(&stubBulletinService{
		listFn: func(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error) {
			gotSel = sel
			return filter.Result{Bulletins: []*domain.Bulletin{activeBulletin("blt-1")}}, nil
		},
	})

	c, rec := newJSONContext(http.MethodGet,
		"/v1/bulletins?category=job&category=college&posted=today&deadline=soon&advisor=Jorge&q=forklift&show_expired=true", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(gotSel.Categories) != 2 || gotSel.Categories[0] != domain.CategoryJob {
		t.Fatalf("categories not parsed: %+v", gotSel.Categories)
	}
	if len(gotSel.Posted) != 1 || gotSel.Posted[0] != filter.PostedToday {
		t.Fatalf("posted bucket not parsed: %+v", gotSel.Posted)
	}
	if len(gotSel.Deadlines) != 1 || gotSel.Deadlines[0] != filter.DeadlineSoon {
		t.Fatalf("deadline bucket not parsed: %+v", gotSel.Deadlines)
	}
	if gotSel.Search != "forklift" || !gotSel.ShowExpired {
		t.Fatalf("search/expired not parsed: %+v", gotSel)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) {
		t.Fatalf("total = %v", resp["total"])
	}
}

func TestBulletinHandler_List_EmptyKinds(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		listFn: func(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error) {
			return filter.Result{Empty: filter.EmptyNoMatch}, nil
		},
	})

	c, rec := newJSONContext(http.MethodGet, "/v1/bulletins?category=job", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["empty"] != "no_match" {
		t.Fatalf("empty kind = %v", resp["empty"])
	}
}

func TestBulletinHandler_Get_SurfacesNotFound(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		getFn: func(ctx context.Context, id string) (*domain.Bulletin, error) {
			return nil, domain.ErrBulletinNotFound
		},
	})

	c, _ := newJSONContext(http.MethodGet, "/v1/bulletins/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	if err := h.Get(c); !errors.Is(err, domain.ErrBulletinNotFound) {
		t.Fatalf("expected ErrBulletinNotFound, got %v", err)
	}
}

func TestBulletinHandler_Create_Success(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		createFn: func(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error) {
			if sess.Username != "jorge" {
				t.Fatalf("session not forwarded: %+v", sess)
			}
			if input.Title != "Job Fair" || input.Category != "job" {
				t.Fatalf("input not mapped: %+v", input)
			}
			b := activeBulletin("blt-1")
			b.Title = input.Title
			return b, []string{"Possible scam pattern detected"}, nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/v1/bulletins", `{"title":"Job Fair","category":"job"}`)
	authenticate(c, "jorge", "Jorge", "advisor")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	warnings, ok := resp["warnings"].([]any)
	if !ok || len(warnings) != 1 {
		t.Fatalf("moderation warnings missing from response: %v", resp)
	}
	bulletin, ok := resp["bulletin"].(map[string]any)
	if !ok || bulletin["title"] != "Job Fair" {
		t.Fatalf("bulletin payload: %v", resp)
	}
}

func TestBulletinHandler_Create_RequiresSession(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		createFn: func(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error) {
			t.Fatalf("service must not be called")
			return nil, nil, nil
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/v1/bulletins", `{"title":"Job Fair","category":"job"}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected a 401, got %v", err)
	}
}

func TestBulletinHandler_Create_RejectsUnknownCategory(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		createFn: func(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error) {
			t.Fatalf("service must not be called")
			return nil, nil, nil
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/v1/bulletins", `{"title":"Bake Sale","category":"garage-sales"}`)
	authenticate(c, "jorge", "Jorge", "advisor")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected a 400, got %v", err)
	}
}

func TestBulletinHandler_Update_SurfacesOwnershipError(t *testing.T) {
	h := NewBulletinHandler(&stubBulletinService{
		updateFn: func(ctx context.Context, id string, patch ports.BulletinPatch, sess ports.Session) (*domain.Bulletin, []string, error) {
			return nil, nil, domain.ErrForbidden
		},
	})

	c, _ := newJSONContext(http.MethodPut, "/v1/bulletins/blt-1", `{"title":"Edited"}`)
	c.SetParamNames("id")
	c.SetParamValues("blt-1")
	authenticate(c, "leidy", "Leidy", "advisor")

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBulletinHandler_Update_MapsPointerFields(t *testing.T) {
	var gotPatch ports.BulletinPatch
	h := NewBulletinHandler(&stubBulletinService{
		updateFn: func(ctx context.Context, id string, patch ports.BulletinPatch, sess ports.Session) (*domain.Bulletin, []string, error) {
			gotPatch = patch
			return activeBulletin(id), nil, nil
		},
	})

	c, rec := newJSONContext(http.MethodPut, "/v1/bulletins/blt-1", `{"title":"Edited","class_type":""}`)
	c.SetParamNames("id")
	c.SetParamValues("blt-1")
	authenticate(c, "jorge", "Jorge", "advisor")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if gotPatch.Title == nil || *gotPatch.Title != "Edited" {
		t.Fatalf("title not mapped: %+v", gotPatch.Title)
	}
	// An explicit empty string clears the field; an absent field stays nil.
	if gotPatch.ClassType == nil || *gotPatch.ClassType != "" {
		t.Fatalf("explicit empty class_type lost: %+v", gotPatch.ClassType)
	}
	if gotPatch.Category != nil {
		t.Fatalf("absent field should stay nil")
	}
}

func TestBulletinHandler_Delete(t *testing.T) {
	var deleted string
	h := NewBulletinHandler(&stubBulletinService{
		deleteFn: func(ctx context.Context, id string, sess ports.Session) error {
			deleted = id
			return nil
		},
	})

	c, rec := newJSONContext(http.MethodDelete, "/v1/bulletins/blt-1", "")
	c.SetParamNames("id")
	c.SetParamValues("blt-1")
	authenticate(c, "jorge", "Jorge", "advisor")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "blt-1" {
		t.Fatalf("deleted id = %q", deleted)
	}
}

func TestToSelection_DropsUnknownBuckets(t *testing.T) {
	sel := toSelection(map[string][]string{
		"posted":   {"yesterday", "today"},
		"deadline": {"whenever", "nodate"},
	})
	if len(sel.Posted) != 1 || sel.Posted[0] != filter.PostedToday {
		t.Fatalf("posted = %+v", sel.Posted)
	}
	if len(sel.Deadlines) != 1 || sel.Deadlines[0] != filter.DeadlineNone {
		t.Fatalf("deadlines = %+v", sel.Deadlines)
	}
}
