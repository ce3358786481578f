package opentdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizpulse/internal/domain"
)

func TestFetchSendsQueryParamsAndAssignsIDs(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"amount":     r.URL.Query().Get("amount"),
			"category":   r.URL.Query().Get("category"),
			"difficulty": r.URL.Query().Get("difficulty"),
			"type":       r.URL.Query().Get("type"),
		}
		w.Write([]byte(`{"response_code":0,"results":[
			{"category":"Animals","correct_answer":"Dog","difficulty":"easy","incorrect_answers":["Cat","Fox"],"question":"What barks?","type":"multiple"},
			{"category":"Animals","correct_answer":"Cow","difficulty":"easy","incorrect_answers":["Hen"],"question":"What moos?","type":"multiple"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	questions, err := client.Fetch(context.Background(), 27, domain.DifficultyEasy, 2, "multiple")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotQuery["amount"] != "2" || gotQuery["category"] != "27" || gotQuery["difficulty"] != "easy" || gotQuery["type"] != "multiple" {
		t.Fatalf("unexpected query params: %+v", gotQuery)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].ID == 0 || questions[1].ID != questions[0].ID+1 {
		t.Fatalf("expected monotonically assigned ids, got %d and %d", questions[0].ID, questions[1].ID)
	}
	if questions[0].CorrectAnswer != "Dog" || questions[0].Text != "What barks?" {
		t.Fatalf("unexpected first question: %+v", questions[0])
	}
}

func TestFetchDefaultsAmountAndType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("amount"); got != "10" {
			t.Errorf("expected default amount 10, got %q", got)
		}
		if got := r.URL.Query().Get("type"); got != "multiple" {
			t.Errorf("expected default type multiple, got %q", got)
		}
		w.Write([]byte(`{"response_code":0,"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Fetch(context.Background(), 9, domain.DifficultyMedium, 0, ""); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestFetchErrorPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "http error", body: "boom", code: http.StatusInternalServerError},
		{name: "no results", body: `{"response_code":1,"results":[]}`, code: http.StatusOK},
		{name: "token error", body: `{"response_code":3,"results":[]}`, code: http.StatusOK},
		{name: "malformed body", body: `{"response_code":`, code: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			_, err := client.Fetch(context.Background(), 27, domain.DifficultyEasy, 5, "multiple")
			if !errors.Is(err, domain.ErrFetchFailed) {
				t.Fatalf("expected fetch failure, got %v", err)
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Fetch(context.Background(), 27, domain.DifficultyEasy, 5, "multiple")
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}
