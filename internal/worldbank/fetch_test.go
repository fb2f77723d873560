package worldbank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"econdash/internal/model"
)

const goodBody = `[
	{"page":1,"pages":1,"per_page":200,"total":3},
	[
		{"indicator":{"id":"SP.POP.TOTL"},"date":"2023","value":334914895},
		{"indicator":{"id":"SP.POP.TOTL"},"date":"2022","value":333287557},
		{"indicator":{"id":"SP.POP.TOTL"},"date":"2021","value":null}
	]
]`

func TestFetchSeries_Success(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	s, err := c.FetchSeries(context.Background(), "US", model.Population)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}

	if gotPath != "/country/US/indicator/SP.POP.TOTL" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "format=json") || !strings.Contains(gotQuery, "per_page=200") {
		t.Errorf("query = %q", gotQuery)
	}

	// null-valued 2021 row is dropped, remainder sorted ascending
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0].Year != 2022 || s[1].Year != 2023 {
		t.Errorf("years = %d,%d want 2022,2023", s[0].Year, s[1].Year)
	}
}

func TestFetchSeries_NumericDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{}, [{"date":2020,"value":1.5},{"date":2021,"value":2.5}]]`))
	}))
	defer srv.Close()

	s, err := NewClient(srv.URL).FetchSeries(context.Background(), "US", model.Inflation)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(s) != 2 || s[0].Year != 2020 {
		t.Fatalf("series = %+v", s)
	}
}

func TestFetchSeries_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchSeries(context.Background(), "US", model.GDP)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", te.Status)
	}
	if !strings.Contains(err.Error(), model.GDP.Code) || !strings.Contains(err.Error(), "502") {
		t.Errorf("message %q should name indicator and status", err.Error())
	}
}

func TestFetchSeries_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, WithTimeout(time.Second))
	_, err := c.FetchSeries(context.Background(), "US", model.GDP)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestFetchSeries_MalformedShape(t *testing.T) {
	bodies := []string{
		`{"message":"not an array"}`,
		`[{"page":1}]`,
		`[{"page":1}, null]`,
		`[{"page":1}, "rows?"]`,
	}
	for _, body := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		_, err := NewClient(srv.URL).FetchSeries(context.Background(), "US", model.Inflation)
		srv.Close()

		var se *ShapeError
		if !errors.As(err, &se) {
			t.Fatalf("body %q: err = %v, want *ShapeError", body, err)
		}
		if !strings.Contains(err.Error(), model.Inflation.Code) {
			t.Errorf("message %q should name the indicator", err.Error())
		}
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.httpClient.Timeout)
	}
	if c.logger == nil {
		t.Error("logger should not be nil")
	}
}
