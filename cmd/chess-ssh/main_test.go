package main

import (
	"bytes"
	"testing"
)

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	w := crlfWriter{w: &buf}

	n, err := w.Write([]byte("8 r n\n7 p p\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 12 {
		t.Fatalf("expected 12 bytes reported, got %d", n)
	}
	if got := buf.String(); got != "8 r n\r\n7 p p\r\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
