package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"poolconv/internal/catalog"
	"poolconv/internal/services"
)

func clipFixture() catalog.Clip {
	return catalog.Clip{ID: "c1", Name: "interview", FilePath: "/media/interview.mp4"}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Options{
		BaseURL:  server.URL,
		APIToken: "secret",
	})
	return client, server
}

func TestInitializeSucceedsWithOpenProject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/project" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "promo cut"})
	}))

	if err := client.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
}

func TestInitializeReportsMissingProject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	err := client.Initialize(context.Background())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestInitializeReportsUnreachableGateway(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(Options{BaseURL: server.URL})

	err := client.Initialize(context.Background())
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestListClipsDecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/mediapool/clips" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"clips": []map[string]string{
				{"id": "c1", "name": "interview", "file_path": "/media/interview.mp4"},
				{"id": "c2", "name": "broll", "file_path": "/media/broll.webm"},
			},
		})
	}))

	clips, err := client.ListClips(context.Background())
	if err != nil {
		t.Fatalf("ListClips returned error: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
	if clips[0].ID != "c1" || clips[0].FilePath != "/media/interview.mp4" {
		t.Fatalf("unexpected first clip: %+v", clips[0])
	}
}

func TestReplaceDeletesThenImports(t *testing.T) {
	var calls []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/mediapool/delete":
			var req struct {
				ClipIDs []string `json:"clip_ids"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode delete request: %v", err)
			}
			if len(req.ClipIDs) != 1 || req.ClipIDs[0] != "c1" {
				t.Fatalf("unexpected delete payload: %v", req.ClipIDs)
			}
		case "/api/v1/mediapool/import":
			var req struct {
				Paths []string `json:"paths"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode import request: %v", err)
			}
			if len(req.Paths) != 1 || req.Paths[0] != "/out/interview_converted.mov" {
				t.Fatalf("unexpected import payload: %v", req.Paths)
			}
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Replace(context.Background(), clipFixture(), "/out/interview_converted.mov"); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "/api/v1/mediapool/delete" || calls[1] != "/api/v1/mediapool/import" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestReplaceStopsWhenDeleteFails(t *testing.T) {
	var imported bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/mediapool/delete":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/v1/mediapool/import":
			imported = true
		}
	}))

	err := client.Replace(context.Background(), clipFixture(), "/out/interview_converted.mov")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
	if imported {
		t.Fatal("import must not run after failed delete")
	}
}
