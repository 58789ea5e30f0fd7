package author

import (
	"context"
	"testing"
)

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"计算极限 lim(x->0) sin(x)/x", "计算极限  lim(x->0)   sin(x)/x", true},
		{"求 F(X) 的导数", "求 f(x) 的导数", true},
		{" 判断连续性 ", "判断连续性", true},
		{"计算极限", "计算导数", false},
	}
	for _, tt := range tests {
		got := normalizeQuestion(tt.a) == normalizeQuestion(tt.b)
		if got != tt.same {
			t.Errorf("normalizeQuestion(%q) == normalizeQuestion(%q): got %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestDedup_AllowsFreshQuestion(t *testing.T) {
	v := &DedupValidator{}
	p := validFillIn()
	req := Request{Existing: []string{"完全不同的题目"}}
	if err := v.Validate(context.Background(), &p, req); err != nil {
		t.Fatalf("expected pass, got: %v", err)
	}
}

func TestDedup_RejectsKnownQuestion(t *testing.T) {
	v := &DedupValidator{}
	p := validFillIn()
	req := Request{Existing: []string{"  计算极限   lim(x->0) sin(x)/x "}}
	err := v.Validate(context.Background(), &p, req)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if err.Validator != "dedup" {
		t.Errorf("expected dedup, got %q", err.Validator)
	}
}
