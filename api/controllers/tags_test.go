package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	tagsvc "github.com/cafeteria-labs/coffeeshop-backend/internal/tags"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
)

type stubTagService struct {
	tag     *tagsvc.TagDTO
	err     error
	created tagsvc.CreateTagInput
	deleted uuid.UUID
}

func (s *stubTagService) ListTags(context.Context) ([]tagsvc.TagDTO, error) {
	return []tagsvc.TagDTO{}, s.err
}

func (s *stubTagService) GetTag(context.Context, uuid.UUID) (*tagsvc.TagDTO, error) {
	return s.tag, s.err
}

func (s *stubTagService) CreateTag(_ context.Context, input tagsvc.CreateTagInput) (*tagsvc.TagDTO, error) {
	s.created = input
	return s.tag, s.err
}

func (s *stubTagService) DeleteTag(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

func TestTagCreate(t *testing.T) {
	svc := &stubTagService{tag: &tagsvc.TagDTO{ID: uuid.New(), Name: "fruity"}}

	resp := httptest.NewRecorder()
	TagCreate(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/tags", strings.NewReader(`{"name":"fruity"}`), nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.created.Name != "fruity" {
		t.Fatalf("unexpected input %+v", svc.created)
	}
}

func TestTagCreateRequiresName(t *testing.T) {
	resp := httptest.NewRecorder()
	TagCreate(&stubTagService{}, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/tags", strings.NewReader(`{}`), nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTagCreateDuplicate(t *testing.T) {
	svc := &stubTagService{err: pkgerrors.New(pkgerrors.CodeConflict, "tag already exists")}

	resp := httptest.NewRecorder()
	TagCreate(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/tags", strings.NewReader(`{"name":"fruity"}`), nil))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestTagDelete(t *testing.T) {
	svc := &stubTagService{}
	id := uuid.New()

	resp := httptest.NewRecorder()
	TagDelete(svc, nil).ServeHTTP(resp, newRequest(http.MethodDelete, "/api/v1/tags/"+id.String(), nil, map[string]string{"tagId": id.String()}))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.deleted != id {
		t.Fatalf("expected %s deleted, got %s", id, svc.deleted)
	}
}

func TestTagGetNotFound(t *testing.T) {
	svc := &stubTagService{err: pkgerrors.New(pkgerrors.CodeNotFound, "tag not found")}
	id := uuid.NewString()

	resp := httptest.NewRecorder()
	TagGet(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/tags/"+id, nil, map[string]string{"tagId": id}))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
