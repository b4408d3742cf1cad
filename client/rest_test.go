package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/restkit/outcome"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func widgetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /widgets/1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"gear"}`))
	})
	mux.HandleFunc("POST /widgets", func(w http.ResponseWriter, r *http.Request) {
		var in widget
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		in.ID = 7
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})
	mux.HandleFunc("DELETE /widgets/1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return httptest.NewServer(mux)
}

func TestGet(t *testing.T) {
	srv := widgetServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := Get[widget](context.Background(), c, "/widgets/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.ID != 1 || res.Value.Name != "gear" {
		t.Errorf("decoded %+v", res.Value)
	}
	if res.Envelope.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.Envelope.StatusCode)
	}
}

func TestPost(t *testing.T) {
	srv := widgetServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := Post[widget](context.Background(), c, "/widgets", widget{Name: "sprocket"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.ID != 7 || res.Value.Name != "sprocket" {
		t.Errorf("decoded %+v", res.Value)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := widgetServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := Delete[struct{}](context.Background(), c, "/widgets/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NoContent {
		t.Error("204 should resolve to the no-content marker")
	}
}

func TestCall_UndeclaredStatus(t *testing.T) {
	srv := widgetServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Get[widget](context.Background(), c, "/teapot")
	if !IsResponseError(err, UnknownOutcomeForStatus) {
		t.Fatalf("expected UnknownOutcomeForStatus, got %v", err)
	}
}

func TestCall_CustomTable(t *testing.T) {
	srv := widgetServer(t)
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := outcome.Build(outcome.Status(http.StatusTeapot, outcome.NoContent()))
	res, err := Call[widget](context.Background(), c, Descriptor{Path: "/teapot"}, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NoContent {
		t.Error("declared outcome should apply")
	}
}
