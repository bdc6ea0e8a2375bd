package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second})
}

func TestListAwardsDecodesWireFormat(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id":"h1","funcionario":{"_id":"e1","nome":"Ana"},
			 "pernoite":true,"data_pernoite":"05/03/2024",
			 "escada":false,"data_escada":"","horas":8,"valor":"R$ 150,00"},
			{"_id":"h2","funcionario":{"_id":"e2","nome":"Bruno"},
			 "pernoite":false,"data_pernoite":"",
			 "escada":true,"data_escada":"2024-03-10","horas":"7,5","valor":90}
		]`))
	}))

	got, err := c.ListAwards(context.Background())
	if err != nil {
		t.Fatalf("ListAwards: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	first := got[0]
	if first.Employee.Name != "Ana" || !first.Overnight || first.OvernightDate != "05/03/2024" {
		t.Errorf("first record = %+v", first)
	}
	if first.Hours.Float() != 8 {
		t.Errorf("numeric hours = %v, want 8", first.Hours.Float())
	}
	if first.Value.Float() != 150 {
		t.Errorf("currency value = %v, want 150", first.Value.Float())
	}

	second := got[1]
	if second.Hours.Float() != 7.5 {
		t.Errorf("comma hours = %v, want 7.5", second.Hours.Float())
	}
	if second.Value.Float() != 90 {
		t.Errorf("bare number value = %v, want 90", second.Value.Float())
	}
	if want := []string{"", "2024-03-10"}; second.Dates()[1] != want[1] {
		t.Errorf("dates = %v", second.Dates())
	}
}

func TestCreateEmployeeSendsWireNames(t *testing.T) {
	var body map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/funcionarios" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.CreateEmployee(context.Background(), EmployeeInput{
		Name: "Carla", Email: "carla@example.com", Password: "s3cret",
		Team: "t1", Status: StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if body["nome"] != "Carla" || body["senha"] != "s3cret" || body["status"] != "ativo" {
		t.Errorf("wire body = %v", body)
	}
}

func TestSetStatusAndDelete(t *testing.T) {
	var gotMethod, gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.SetFreelancerStatus(context.Background(), "f9", StatusInactive); err != nil {
		t.Fatalf("SetFreelancerStatus: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/autonomos/f9/status" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}

	if err := c.DeletePayment(context.Background(), "p3"); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/dados-autonomo/p3" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

func TestAPIErrorFromErrorPayload(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"nome obrigatório"}`))
	}))

	err := c.CreateTeam(context.Background(), TeamInput{})
	if err == nil {
		t.Fatal("want error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "nome obrigatório" {
		t.Errorf("api error = %+v", apiErr)
	}
}

func TestPing(t *testing.T) {
	up := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	if err := up.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	down := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	if err := down.Ping(context.Background()); err == nil {
		t.Fatal("want error from unavailable upstream")
	}
}
