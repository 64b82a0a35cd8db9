package twentycrm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreatePersonUpsert(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	var gotPayload PersonPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "person-1"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "secret-token"})

	resp, err := client.CreatePerson(context.Background(), PersonPayload{
		LeadID: "L1",
		Name:   Name{FirstName: "Ryan", LastName: "Beuglet"},
	}, true)

	assert.NoError(t, err)
	assert.Equal(t, "person-1", resp.PersonID())
	assert.Equal(t, "/rest/people", gotPath)
	assert.Equal(t, "upsert=true", gotQuery)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "L1", gotPayload.LeadID)
}

func TestCreatePersonWithoutUpsert(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"id": "person-1"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.CreatePerson(context.Background(), PersonPayload{LeadID: "L1"}, false)

	assert.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestCreatePersonRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"email already taken"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.CreatePerson(context.Background(), PersonPayload{LeadID: "L1"}, true)

	crmErr, ok := AsCRMError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrKindRejected, crmErr.Kind)
	assert.Equal(t, http.StatusBadRequest, crmErr.Status)
	assert.Contains(t, crmErr.Body, "email already taken")
}

func TestCreatePersonTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{"id": "person-1"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})

	_, err := client.CreatePerson(context.Background(), PersonPayload{LeadID: "L1"}, true)

	crmErr, ok := AsCRMError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrKindTimeout, crmErr.Kind)
}

func TestCreatePersonUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.CreatePerson(context.Background(), PersonPayload{LeadID: "L1"}, true)

	crmErr, ok := AsCRMError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrKindUnreachable, crmErr.Kind)
}

func TestCreatePersonGarbledBodyIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.CreatePerson(context.Background(), PersonPayload{LeadID: "L1"}, true)

	crmErr, ok := AsCRMError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrKindRejected, crmErr.Kind)
}

func TestCreateTask(t *testing.T) {
	var gotPath string
	var gotPayload TaskPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"id": "task-1"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	resp, err := client.CreateTask(context.Background(), TaskPayload{
		Title:    "Ryan Beuglet",
		Status:   "BACKLOG",
		PersonID: "person-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "task-1", resp.ID)
	assert.Equal(t, "/rest/tasks", gotPath)
	assert.Equal(t, "BACKLOG", gotPayload.Status)
	assert.Equal(t, "person-1", gotPayload.PersonID)
}

func TestPersonIDShapes(t *testing.T) {
	cases := []struct {
		name string
		resp *PersonResponse
		want string
	}{
		{"nil response", nil, ""},
		{"top-level id", &PersonResponse{ID: "p1"}, "p1"},
		{"id in data", &PersonResponse{Data: map[string]any{"id": "p2"}}, "p2"},
		{"personId in data", &PersonResponse{Data: map[string]any{"personId": "p3"}}, "p3"},
		{"nested data object", &PersonResponse{Data: map[string]any{"data": map[string]any{"id": "p4"}}}, "p4"},
		{"nothing usable", &PersonResponse{Data: map[string]any{"count": 1.0}}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.resp.PersonID())
		})
	}
}
