package normalizer

import (
	"context"
	"errors"
	"testing"
)

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestNormalize_Translates(t *testing.T) {
	tr := &fakeTranslator{out: "where is the refund policy"}
	n := New(tr, "ja", "en")
	if got := n.Normalize(context.Background(), "返品ポリシーはどこですか"); got != "where is the refund policy" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_FallsBackOnError(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("service down")}
	n := New(tr, "ja", "en")
	if got := n.Normalize(context.Background(), "original"); got != "original" {
		t.Fatalf("translation failure must fall back to the original, got %q", got)
	}
}

func TestNormalize_FallsBackOnEmptyResult(t *testing.T) {
	tr := &fakeTranslator{out: "   "}
	n := New(tr, "ja", "en")
	if got := n.Normalize(context.Background(), "original"); got != "original" {
		t.Fatalf("blank translation must fall back to the original, got %q", got)
	}
}

func TestNormalize_SkipsWhenLangsMatch(t *testing.T) {
	tr := &fakeTranslator{out: "should not be used"}
	n := New(tr, "en", "en")
	if got := n.Normalize(context.Background(), "original"); got != "original" {
		t.Fatalf("same-language normalization must pass through, got %q", got)
	}
	if tr.calls != 0 {
		t.Fatalf("translator should not be called, got %d calls", tr.calls)
	}
}

func TestNormalize_NilNormalizer(t *testing.T) {
	var n *Normalizer
	if got := n.Normalize(context.Background(), "q"); got != "q" {
		t.Fatalf("nil normalizer must pass through, got %q", got)
	}
}
