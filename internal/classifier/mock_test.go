package classifier

import (
	"context"
	"testing"

	"github.com/arbiterlabs/arbiter/internal/domain"
)

func TestMockAgent_Deterministic(t *testing.T) {
	a := NewMockAgent("naive_bayes")
	ctx := context.Background()

	label, conf, err := a.Predict(ctx, "claim your free prize now")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 0; i < 20; i++ {
		l, c, err := a.Predict(ctx, "claim your free prize now")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if l != label || c != conf {
			t.Fatalf("mock must be deterministic: got (%s, %f) then (%s, %f)", label, conf, l, c)
		}
	}
}

func TestMockAgent_SpamAndHam(t *testing.T) {
	a := NewMockAgent("svm")
	ctx := context.Background()

	label, conf, err := a.Predict(ctx, "urgent: free cash prize, click to claim your guaranteed offer")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != domain.LabelSpam {
		t.Fatalf("expected spam for marker-heavy message, got %s", label)
	}
	if conf < 0.5 || conf > 1 {
		t.Fatalf("confidence out of range: %f", conf)
	}

	label, conf, err = a.Predict(ctx, "see you at the meeting tomorrow")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != domain.LabelHam {
		t.Fatalf("expected ham for plain message, got %s", label)
	}
	if conf < 0.5 || conf > 1 {
		t.Fatalf("confidence out of range: %f", conf)
	}
}

func TestMockAgent_Overrides(t *testing.T) {
	a := NewMockAgent("rf")
	a.FixedLabel = domain.LabelHam
	a.FixedConfidence = 0.42

	label, conf, err := a.Predict(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != domain.LabelHam || conf != 0.42 {
		t.Fatalf("override ignored: got (%s, %f)", label, conf)
	}
}

func TestNewPool(t *testing.T) {
	handles, err := NewPool(ProviderMock, "", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(handles) != 3 {
		t.Fatalf("expected 3 handles, got %d", len(handles))
	}

	if _, err := NewPool(ProviderHTTP, "", []string{"a"}); err == nil {
		t.Fatal("http provider without base URL must fail")
	}
	if _, err := NewPool("grpc", "", []string{"a"}); err == nil {
		t.Fatal("unknown provider must fail")
	}
	if _, err := NewPool(ProviderMock, "", nil); err == nil {
		t.Fatal("empty pool must fail")
	}
}
