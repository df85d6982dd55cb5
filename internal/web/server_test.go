package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/park-assist/internal/logic"
	"github.com/sweeney/park-assist/internal/status"
)

func startServer(t *testing.T) (*status.Tracker, string, func()) {
	t.Helper()

	tracker := status.NewTracker(time.Now(), status.Config{
		NumLEDs:      24,
		MinTriggerCM: 4,
		MaxTriggerCM: 100,
		MinDisplayCM: 10,
		MaxDisplayCM: 80,
		HysteresisCM: 4,
		LevelPolicy:  "linear",
		ParkedExit:   "receded",
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(ln.Addr().String(), tracker)
	go srv.Serve(ln)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return tracker, fmt.Sprintf("http://%s", ln.Addr()), cleanup
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestIndexPage(t *testing.T) {
	tracker, base, cleanup := startServer(t)
	defer cleanup()

	tracker.Update(logic.StateParking, logic.TransitionCounts{AwayToParking: 1})
	tracker.SetDistance(55, 4)

	code, ctype, body := get(t, base+"/")
	if code != http.StatusOK {
		t.Fatalf("status: got %d", code)
	}
	if !strings.HasPrefix(ctype, "text/html") {
		t.Errorf("content type: got %q", ctype)
	}
	if !strings.Contains(body, "PARKING") {
		t.Error("page should show the current state")
	}
	if !strings.Contains(body, "55 cm") {
		t.Error("page should show the displayed distance")
	}
	if !strings.Contains(body, "(4 pairs lit)") {
		t.Error("page should show the lit pair count")
	}
}

func TestIndexHTMLAlias(t *testing.T) {
	_, base, cleanup := startServer(t)
	defer cleanup()

	code, _, body := get(t, base+"/index.html")
	if code != http.StatusOK {
		t.Fatalf("status: got %d", code)
	}
	if !strings.Contains(body, "AWAY") {
		t.Error("page should show the initial state")
	}
}

func TestJSONEndpoint(t *testing.T) {
	tracker, base, cleanup := startServer(t)
	defer cleanup()

	tracker.Update(logic.StateParked, logic.TransitionCounts{
		AwayToParking:   1,
		ParkingToParked: 1,
	})

	code, ctype, body := get(t, base+"/index.json")
	if code != http.StatusOK {
		t.Fatalf("status: got %d", code)
	}
	if ctype != "application/json" {
		t.Errorf("content type: got %q", ctype)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Status.State != "PARKED" {
		t.Errorf("state: got %q, want PARKED", parsed.Status.State)
	}
	if parsed.Status.Counts.ParkingToParked != 1 {
		t.Errorf("counts: got %+v", parsed.Status.Counts)
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	_, base, cleanup := startServer(t)
	defer cleanup()

	code, _, _ := get(t, base+"/nope")
	if code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", code)
	}
}
