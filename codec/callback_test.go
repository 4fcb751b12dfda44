package codec_test

import (
	"testing"

	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
)

func onHeartbeat() {}
func onShutdown()  {}
func onReconnect() {}

func TestWriteCallback_SingleEntryTable_WritesNothing(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	out := codec.New(buf)
	table := []uintptr{codec.FuncID(onHeartbeat)}

	if err := codec.WriteCallback(out, table, codec.FuncID(onHeartbeat)); err != nil {
		t.Fatalf("WriteCallback: %v", err)
	}
	if out.Buffer().Used() != 0 {
		t.Fatalf("WriteCallback with single-entry table wrote %d bytes, want 0", out.Buffer().Used())
	}
}

func TestWriteCallback_SingleEntryTable_MismatchFails(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	out := codec.New(buf)
	table := []uintptr{codec.FuncID(onHeartbeat)}

	err := codec.WriteCallback(out, table, codec.FuncID(onShutdown))
	if erpcstatus.Cause(err) != erpcstatus.UnknownCallback {
		t.Fatalf("WriteCallback mismatch = %v, want UnknownCallback", err)
	}
}

func TestCallback_MultiEntryTable_RoundTrips(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	table := []uintptr{codec.FuncID(onHeartbeat), codec.FuncID(onShutdown), codec.FuncID(onReconnect)}

	out := codec.New(buf)
	if err := codec.WriteCallback(out, table, codec.FuncID(onReconnect)); err != nil {
		t.Fatalf("WriteCallback: %v", err)
	}

	in := codec.New(buf)
	got, err := codec.ReadCallback(in, table)
	if err != nil {
		t.Fatalf("ReadCallback: %v", err)
	}
	if got != codec.FuncID(onReconnect) {
		t.Fatalf("ReadCallback() = %v, want FuncID(onReconnect)", got)
	}
}

func TestReadCallback_SingleEntryTable_ReadsNothing(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	table := []uintptr{codec.FuncID(onHeartbeat)}

	in := codec.New(buf)
	got, err := codec.ReadCallback(in, table)
	if err != nil {
		t.Fatalf("ReadCallback: %v", err)
	}
	if in.Buffer().Used() != 0 {
		t.Fatalf("ReadCallback advanced the cursor for a single-entry table")
	}
	if got != table[0] {
		t.Fatalf("ReadCallback() = %v, want %v", got, table[0])
	}
}

func TestReadCallback_UnknownIndexFails(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	table := []uintptr{codec.FuncID(onHeartbeat), codec.FuncID(onShutdown)}

	out := codec.New(buf)
	_ = out.WriteUint8(200)

	in := codec.New(buf)
	if _, err := codec.ReadCallback(in, table); erpcstatus.Cause(err) != erpcstatus.UnknownCallback {
		t.Fatalf("ReadCallback() err = %v, want UnknownCallback", err)
	}
}

func TestCallback_EmptyTableIsInvalidArgument(t *testing.T) {
	buf := msgbuf.NewBuffer(16)
	out := codec.New(buf)
	if err := codec.WriteCallback(out, []uintptr{}, codec.FuncID(onHeartbeat)); erpcstatus.Cause(err) != erpcstatus.InvalidArgument {
		t.Fatalf("WriteCallback empty table = %v, want InvalidArgument", err)
	}
}
