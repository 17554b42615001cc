package locator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/screenmatch/pkg/core"
)

const keypadDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node index="0" text="3" class="android.widget.TextView" bounds="[100,200][140,240]" clickable="true"/>
  <node index="1" text="Submit" class="android.widget.TextView" bounds="[50,500][250,560]" clickable="true"/>
</hierarchy>`

type fakeSource struct {
	dump  string
	err   error
	calls int
}

func (f *fakeSource) DumpUI(ctx context.Context) (string, error) {
	f.calls++
	return f.dump, f.err
}

func TestResolveDump(t *testing.T) {
	res, err := ResolveDump(Request{QueryDescription: "press digit 3", RawDump: keypadDump})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Result{
		Found:       true,
		X:           120,
		Y:           220,
		ElementType: ElementButton,
		Confidence:  1.0,
		Description: "Found '3' via UI dump (similarity: 100%)",
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("ResolveDump mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDump_NoMatch(t *testing.T) {
	res, err := ResolveDump(Request{QueryDescription: "xyzzy nonsense", RawDump: keypadDump})

	if !errors.Is(err, core.ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
	if !core.IsFallbackable(err) {
		t.Error("no match should allow a fallback matcher")
	}
	if res.Found || res.X != 0 || res.Y != 0 || res.Confidence != 0 {
		t.Errorf("result = %+v, want zero not-found", res)
	}

	var ee *core.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatal("expected ExecutionError")
	}
	if ee.Details["elements"] != 2 {
		t.Errorf("details elements = %v, want 2", ee.Details["elements"])
	}
}

func TestResolveDump_MalformedDump(t *testing.T) {
	res, err := ResolveDump(Request{QueryDescription: "tap login", RawDump: "adb: device offline"})

	if res.Found {
		t.Errorf("unexpected match: %+v", res)
	}
	if !errors.Is(err, core.ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
	if !errors.Is(err, core.ErrMalformedDump) {
		t.Errorf("err = %v, want ErrMalformedDump cause", err)
	}
}

func TestResolveDump_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"blank", "   "},
		{"only stop words", "tap the"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ResolveDump(Request{QueryDescription: tt.query, RawDump: keypadDump})
			if !errors.Is(err, core.ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
			if res.Found {
				t.Errorf("unexpected match: %+v", res)
			}
		})
	}
}

func TestResolveDump_StopWordLabelStillMatches(t *testing.T) {
	dump := `<node text="Enter" class="android.widget.Button" bounds="[0,0][100,50]" clickable="true"/>`

	res, err := ResolveDump(Request{QueryDescription: "enter", RawDump: dump})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found || res.X != 50 || res.Y != 25 {
		t.Errorf("result = %+v, want Enter key at (50, 25)", res)
	}
}

func TestLocator_FetchesDump(t *testing.T) {
	src := &fakeSource{dump: keypadDump}
	l := &Locator{Source: src}

	res, err := l.Locate(context.Background(), Request{QueryDescription: "tap submit button"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("DumpUI calls = %d, want 1", src.calls)
	}
	if res.X != 150 || res.Y != 530 {
		t.Errorf("point = (%d, %d), want (150, 530)", res.X, res.Y)
	}
}

func TestLocator_UsesProvidedDump(t *testing.T) {
	src := &fakeSource{err: errors.New("should not be called")}
	l := &Locator{Source: src}

	if _, err := l.Locate(context.Background(), Request{QueryDescription: "submit", RawDump: keypadDump}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 0 {
		t.Errorf("DumpUI calls = %d, want 0", src.calls)
	}
}

func TestLocator_SourceError(t *testing.T) {
	cause := errors.New("adb: device offline")
	l := &Locator{Source: &fakeSource{err: cause}}

	res, err := l.Locate(context.Background(), Request{QueryDescription: "submit"})
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped source error", err)
	}
	if core.IsFallbackable(err) {
		t.Error("dump failure must not look like a match failure")
	}
	if res.Found {
		t.Errorf("unexpected match: %+v", res)
	}
}

func TestLocator_NoSource(t *testing.T) {
	_, err := (&Locator{}).Locate(context.Background(), Request{QueryDescription: "submit"})
	if !errors.Is(err, core.ErrMissingRequired) {
		t.Errorf("err = %v, want ErrMissingRequired", err)
	}
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal(Result{Found: true, X: 1, Y: 2, ElementType: ElementButton, Confidence: 0.5, Description: "d"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"found":true,"x":1,"y":2,"element_type":"button","confidence":0.5,"description":"d"}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}

func TestResult_Percent(t *testing.T) {
	if got := (Result{Confidence: 0.666}).Percent(); got != 67 {
		t.Errorf("Percent() = %d, want 67", got)
	}
}
