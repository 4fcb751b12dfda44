package erpclog_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"code.hybscloud.com/erpc/erpclog"
)

func TestSetLogger_RoutesOutput(t *testing.T) {
	var buf bytes.Buffer
	erpclog.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer erpclog.SetLogger(nil)

	erpclog.Warn(context.Background(), "handler failed", slog.Uint64("service_id", 7))

	if !strings.Contains(buf.String(), "handler failed") {
		t.Fatalf("log output %q does not contain expected message", buf.String())
	}
	if !strings.Contains(buf.String(), "service_id=7") {
		t.Fatalf("log output %q does not contain expected attribute", buf.String())
	}
}

func TestSetLogger_NilRestoresDefault(t *testing.T) {
	var buf bytes.Buffer
	erpclog.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	erpclog.SetLogger(nil)

	if erpclog.Logger() == nil {
		t.Fatalf("Logger() = nil after SetLogger(nil)")
	}
}
