package extract

import (
	"context"
	"testing"
)

func TestPDFTextRejectsNonPDF(t *testing.T) {
	if _, err := PDFText(context.Background(), []byte("hello")); err == nil {
		t.Fatalf("expected error for non-pdf input")
	}
}

func TestPDFTextHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.3")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.4\n...")) {
		t.Fatalf("expected pdf header to be detected")
	}
	if IsPDF([]byte("PK\x03\x04")) {
		t.Fatalf("zip detected as pdf")
	}
}
