package shoptest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/internal/shoptest"
)

func do(t *testing.T, s *shoptest.Server, method, path, body string, auth bool) (int, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, s.URL+dispatch.APIPath+path, r)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth(s.User, s.Password)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	return resp.StatusCode, string(b)
}

func TestServer_RequiresCredentials(t *testing.T) {
	s := shoptest.NewServer(t)

	code, body := do(t, s, http.MethodGet, "/addresses", "", false)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if !strings.Contains(body, "invalid credentials") {
		t.Errorf("unexpected body %s", body)
	}
}

func TestServer_Collection(t *testing.T) {
	s := shoptest.NewServer(t)

	s.Seed("addresses", map[string]any{"firstname": "Alice"})
	s.Seed("addresses", map[string]any{"firstname": "Bob"})

	code, body := do(t, s, http.MethodPost, "/addresses", `{"firstname":"Bobby"}`, true)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}

	tests := map[string]struct {
		path string
		want []string
	}{
		"all":    {path: "/addresses", want: []string{"Alice", "Bob", "Bobby"}},
		"search": {path: "/addresses?q=bob", want: []string{"Bob", "Bobby"}},
		"paged":  {path: "/addresses?per_page=2&page=2", want: []string{"Bobby"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			code, body := do(t, s, http.MethodGet, tc.path, "", true)
			if code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", code, body)
			}

			var items []struct {
				Firstname string `json:"firstname"`
			}
			if err := json.Unmarshal([]byte(body), &items); err != nil {
				t.Fatalf("decoding body: %v", err)
			}

			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.Firstname)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServer_NotFound(t *testing.T) {
	s := shoptest.NewServer(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		code, body := do(t, s, method, "/zones/99", "", true)
		if code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", method, code)
		}
		if !strings.Contains(body, `"code":404`) {
			t.Errorf("%s: unexpected body %s", method, body)
		}
	}
}

func TestServer_EchoesUnmodelledRoutes(t *testing.T) {
	s := shoptest.NewServer(t)

	code, body := do(t, s, http.MethodPatch, "/orders/3/status", `{"status":"shipped"}`, true)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}

	want := `{"method":"PATCH","path":"/orders/3/status","body":{"status":"shipped"}}`
	if body != want {
		t.Errorf("expected %s, got %s", want, body)
	}

	last, ok := s.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Method != http.MethodPatch || string(last.Body) != `{"status":"shipped"}` {
		t.Errorf("unexpected recorded request %+v", last)
	}
}

func TestServer_EchoesUnmodelledCollectionRequests(t *testing.T) {
	s := shoptest.NewServer(t)
	s.Seed("customers", map[string]any{"firstname": "Alice"})

	t.Run("filtered list", func(t *testing.T) {
		code, body := do(t, s, http.MethodGet, "/customers?type=guests&page=3", "", true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", code, body)
		}

		want := `{"method":"GET","path":"/customers","query":{"page":"3","type":"guests"}}`
		if body != want {
			t.Errorf("expected %s, got %s", want, body)
		}
	})

	t.Run("multipart create", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("filename", "favourite.png")
		fw, err := mw.CreateFormFile("file", "star.png")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		fw.Write([]byte("png"))
		mw.Close()

		req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, s.URL+dispatch.APIPath+"/category_icons", &buf)
		if err != nil {
			t.Fatalf("creating request: %v", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.SetBasicAuth(s.User, s.Password)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("executing request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var got struct {
			Path   string            `json:"path"`
			Fields map[string]string `json:"fields"`
			Files  map[string]string `json:"files"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decoding body: %v", err)
		}

		want := struct {
			Path   string            `json:"path"`
			Fields map[string]string `json:"fields"`
			Files  map[string]string `json:"files"`
		}{
			Path:   "/category_icons",
			Fields: map[string]string{"filename": "favourite.png"},
			Files:  map[string]string{"file": "star.png"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("echo mismatch (-want +got):\n%s", diff)
		}
	})
}

// syncBuffer is written by the server goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_Options(t *testing.T) {
	var buf syncBuffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := shoptest.NewServer(t, shoptest.WithCredentials("clerk", "hunter2"), shoptest.WithLogger(log))

	if s.User != "clerk" || s.Password != "hunter2" {
		t.Fatalf("expected custom credentials, got %q/%q", s.User, s.Password)
	}

	code, _ := do(t, s, http.MethodGet, "/zones", "", true)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}

	if !strings.Contains(buf.String(), "request completed") {
		t.Errorf("expected request to be logged, got %q", buf.String())
	}
}
