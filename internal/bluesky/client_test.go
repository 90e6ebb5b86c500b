package bluesky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pds fakes the three XRPC endpoints the client uses.
func pds(t *testing.T, createStatus int, createBody string) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/xrpc/com.atproto.server.createSession":
			json.NewEncoder(w).Encode(map[string]string{
				"accessJwt": "jwt-token",
				"did":       "did:plc:test",
				"handle":    "bot.example.com",
			})
		case "/xrpc/com.atproto.repo.uploadBlob":
			if r.Header.Get("Authorization") != "Bearer jwt-token" {
				t.Error("blob upload missing auth header")
			}
			w.Write([]byte(`{"blob": {"$type": "blob", "ref": {"$link": "bafy123"}, "mimeType": "image/png", "size": 3}}`))
		case "/xrpc/com.atproto.repo.createRecord":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["rkey"] == "" || body["repo"] != "did:plc:test" {
				t.Errorf("unexpected createRecord body: %v", body)
			}
			w.WriteHeader(createStatus)
			w.Write([]byte(createBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &requests
}

func TestPublish(t *testing.T) {
	srv, requests := pds(t, http.StatusOK, `{"uri": "at://did:plc:test/app.bsky.feed.post/001", "cid": "bafyrec"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "bot.example.com", "app-password")
	res, err := client.Publish(context.Background(), Post{
		RKey: "001",
		Text: "hello world",
		Images: []Image{
			{Data: []byte("png"), Mime: "image/png", Alt: "a thing"},
			{Data: []byte("jpg"), Mime: "image/jpeg", Alt: "another"},
		},
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.URI != "at://did:plc:test/app.bsky.feed.post/001" {
		t.Errorf("unexpected uri %q", res.URI)
	}
	if res.AlreadyExists {
		t.Error("fresh record must not be marked AlreadyExists")
	}

	// login, two blob uploads, createRecord
	if len(*requests) != 4 {
		t.Errorf("expected 4 requests, got %d: %v", len(*requests), *requests)
	}
}

func TestPublishDuplicateRKeyIsSuccess(t *testing.T) {
	srv, _ := pds(t, http.StatusConflict, `{"error": "InvalidRequest", "message": "record already exists"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "bot.example.com", "app-password")
	res, err := client.Publish(context.Background(), Post{RKey: "001", Text: "hello"})
	if err != nil {
		t.Fatalf("duplicate rkey must not be an error: %v", err)
	}
	if !res.AlreadyExists {
		t.Error("expected AlreadyExists")
	}
}

func TestPublishRejectsOversizedImage(t *testing.T) {
	srv, _ := pds(t, http.StatusOK, `{}`)
	defer srv.Close()

	client := NewClient(srv.URL, "bot.example.com", "app-password")
	_, err := client.Publish(context.Background(), Post{
		RKey:   "001",
		Text:   "hello",
		Images: []Image{{Data: make([]byte, 1_000_001), Mime: "image/png"}},
	})
	if err == nil {
		t.Error("expected an error for an oversized blob")
	}
}

func TestPublishLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "AuthenticationRequired", "message": "Invalid identifier or password"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bot.example.com", "wrong")
	if _, err := client.Publish(context.Background(), Post{RKey: "001", Text: "x"}); err == nil {
		t.Error("expected login failure to surface")
	}
}

func TestSanitizeRKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"001", "001"},
		{"Launch Week!", "launch-week-"},
		{"a.b-c_d~e", "a.b-c_d~e"},
	}
	for _, tt := range tests {
		if got := SanitizeRKey(tt.in); got != tt.want {
			t.Errorf("SanitizeRKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
