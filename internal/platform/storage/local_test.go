package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStoreSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/files/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	info, err := store.Save(ctx, "t1/payslips/a.pdf", bytes.NewBufferString("pdf"), "application/pdf")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if info.FileSize != 3 || info.URL != "/files/t1/payslips/a.pdf" {
		t.Fatalf("unexpected info: %+v", info)
	}

	rc, err := store.Open(ctx, "t1/payslips/a.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "pdf" {
		t.Fatalf("unexpected body %q", body)
	}

	if err := store.Delete(ctx, "t1/payslips/a.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "t1/payslips/a.pdf"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestLocalStoreKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/files")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	full, err := store.resolve("../../etc/passwd")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasPrefix(full, root) {
		t.Fatalf("expected path under root, got %s", full)
	}
}

func TestObjectKeySanitizes(t *testing.T) {
	key := ObjectKey("t1", "tickets", "../my report (v2).pdf")
	if !strings.HasPrefix(key, "t1/tickets/") || !strings.HasSuffix(key, "-my_report__v2_.pdf") {
		t.Fatalf("unexpected key %s", key)
	}
}
