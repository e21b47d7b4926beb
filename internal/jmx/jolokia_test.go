package jmx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmxwatch/jmxwatch/internal/config"
)

// fakeJolokia answers version/search/list/read requests the way a Jolokia
// agent on a small JVM would.
func fakeJolokia(t *testing.T, wantAuth bool) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if wantAuth {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "monitor" || pass != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		var req struct {
			Type      string `json:"type"`
			MBean     string `json:"mbean"`
			Attribute string `json:"attribute"`
			Path      string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		reply := func(v any) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 200, "value": v})
		}

		switch req.Type {
		case "version":
			reply(map[string]any{"agent": "2.0.3"})
		case "search":
			if strings.Contains(req.MBean, "NoSuch") {
				reply([]string{})
				return
			}
			// Deliberately unsorted: the client must order them.
			reply([]string{
				"java.lang:type=GarbageCollector,name=ParNew",
				"java.lang:type=GarbageCollector,name=ConcurrentMarkSweep",
			})
		case "list":
			if !strings.HasPrefix(req.Path, "java.lang/") {
				t.Errorf("list path: got %q", req.Path)
			}
			reply(map[string]any{"attr": map[string]any{
				"CollectionCount": map[string]any{"type": "long", "rw": false},
				"CollectionTime":  map[string]any{"type": "long", "rw": false},
			}})
		case "read":
			switch req.Attribute {
			case "CollectionCount":
				reply(12.0)
			case "LastGcInfo":
				reply(map[string]any{"duration": 5.0, "GcThreadCount": 4.0})
			default:
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status": 404,
					"error":  "javax.management.AttributeNotFoundException: " + req.Attribute,
				})
			}
		default:
			t.Errorf("unexpected request type %q", req.Type)
		}
	}
}

func connectTo(t *testing.T, srv *httptest.Server, target config.Target) Conn {
	t.Helper()
	target.URL = srv.URL
	conn, err := NewClient().Connect(context.Background(), target)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return conn
}

func TestJolokia_FindSortsMatches(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, false))
	defer srv.Close()

	conn := connectTo(t, srv, config.Target{Host: "app01", Port: 8778})
	defer conn.Close()

	objects, err := conn.Find(context.Background(), "java.lang:type=GarbageCollector,name=*")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("Find() returned %d objects, want 2", len(objects))
	}
	if objects[0].Identifier() != "java.lang:type=GarbageCollector,name=ConcurrentMarkSweep" {
		t.Errorf("object 0: got %q, want sorted order", objects[0].Identifier())
	}
}

func TestJolokia_FindNoMatchIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, false))
	defer srv.Close()

	conn := connectTo(t, srv, config.Target{Host: "app01", Port: 8778})
	defer conn.Close()

	objects, err := conn.Find(context.Background(), "java.lang:type=NoSuchThing")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("Find() returned %d objects, want 0", len(objects))
	}
}

func TestJolokia_ReadAndAttributeNames(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, false))
	defer srv.Close()

	conn := connectTo(t, srv, config.Target{Host: "app01", Port: 8778})
	defer conn.Close()

	objects, err := conn.Find(context.Background(), "java.lang:type=GarbageCollector,name=*")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	obj := objects[0]

	names, err := obj.AttributeNames(context.Background())
	if err != nil {
		t.Fatalf("AttributeNames() error = %v", err)
	}
	if len(names) != 2 || names[0] != "CollectionCount" || names[1] != "CollectionTime" {
		t.Errorf("AttributeNames() = %v", names)
	}

	v, err := obj.Read(context.Background(), "CollectionCount")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n, ok := v.(float64); !ok || n != 12 {
		t.Errorf("Read(CollectionCount) = %v (%T), want 12", v, v)
	}

	composite, err := obj.Read(context.Background(), "LastGcInfo")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	fields, ok := composite.(map[string]any)
	if !ok {
		t.Fatalf("Read(LastGcInfo) = %T, want map", composite)
	}
	if fields["duration"] != 5.0 {
		t.Errorf("composite duration: got %v", fields["duration"])
	}
}

func TestJolokia_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, false))
	defer srv.Close()

	conn := connectTo(t, srv, config.Target{Host: "app01", Port: 8778})
	defer conn.Close()

	objects, _ := conn.Find(context.Background(), "java.lang:type=GarbageCollector,name=*")
	_, err := objects[0].Read(context.Background(), "Bogus")
	if err == nil {
		t.Fatal("Read() succeeded for an unknown attribute")
	}
	if !strings.Contains(err.Error(), "AttributeNotFoundException") {
		t.Errorf("error %q does not carry the agent's error text", err)
	}
}

func TestJolokia_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, true))
	defer srv.Close()

	// Wrong credentials are rejected at connect time.
	bad := config.Target{Host: "app01", Port: 8778, URL: srv.URL, Username: "monitor", Password: "wrong"}
	if _, err := NewClient().Connect(context.Background(), bad); err == nil {
		t.Fatal("Connect() succeeded with bad credentials")
	}

	good := config.Target{Host: "app01", Port: 8778, Username: "monitor", Password: "hunter2"}
	conn := connectTo(t, srv, good)
	defer conn.Close()
}

func TestJolokia_ConnectFailure(t *testing.T) {
	srv := httptest.NewServer(fakeJolokia(t, false))
	srv.Close() // already down

	target := config.Target{Host: "app01", Port: 8778, URL: srv.URL}
	if _, err := NewClient().Connect(context.Background(), target); err == nil {
		t.Fatal("Connect() succeeded against a closed endpoint")
	}
}

func TestEndpointFor(t *testing.T) {
	derived := endpointFor(config.Target{Host: "app01", Port: 8778})
	if derived != "http://app01:8778/jolokia" {
		t.Errorf("endpointFor() = %q", derived)
	}

	override := endpointFor(config.Target{Host: "app01", Port: 8778, URL: "https://proxy/jolokia"})
	if override != "https://proxy/jolokia" {
		t.Errorf("endpointFor() = %q, want the url override", override)
	}
}
