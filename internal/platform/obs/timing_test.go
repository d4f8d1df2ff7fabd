package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
)

func TestTimeLogsOutcome(t *testing.T) {
	h := memory.New()
	log.SetHandler(h)
	log.SetLevel(log.DebugLevel)

	ctx := WithRequestID(context.Background(), "abc")

	func() {
		var err error
		defer Time(ctx, "ok.op")(&err)
	}()

	func() {
		err := errors.New("boom")
		defer Time(ctx, "bad.op")(&err)
	}()

	if len(h.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(h.Entries))
	}

	ok := h.Entries[0]
	if ok.Level != log.DebugLevel || ok.Fields.Get("op") != "ok.op" || ok.Fields.Get("req_id") != "abc" {
		t.Fatalf("unexpected success entry: %+v", ok)
	}

	bad := h.Entries[1]
	if bad.Level != log.WarnLevel || bad.Fields.Get("error") != "boom" {
		t.Fatalf("unexpected failure entry: %+v", bad)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, err := Setup("loud", ""); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	c, err := Setup("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Close() != nil {
		t.Fatalf("nop closer returned error")
	}
}
