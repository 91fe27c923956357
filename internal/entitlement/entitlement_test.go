package entitlement

import "testing"

func TestEvaluate(t *testing.T) {
	g := NewGate(3)

	tests := []struct {
		name   string
		day    int
		isPaid bool
		want   Decision
	}{
		{"day 1 free user", 1, false, Allow},
		{"day 3 free user", 3, false, Allow},
		{"day 4 free user", 4, false, RequirePremium},
		{"day 60 free user", 60, false, RequirePremium},
		{"day 4 paid user", 4, true, Allow},
		{"day 60 paid user", 60, true, Allow},
		{"day 1 paid user", 1, true, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Evaluate(tt.day, tt.isPaid); got != tt.want {
				t.Errorf("Evaluate(%d, %v) = %v, want %v", tt.day, tt.isPaid, got, tt.want)
			}
		})
	}
}

func TestEvaluate_FreeWindowIgnoresPaidFlag(t *testing.T) {
	g := NewGate(3)
	for day := 1; day <= 3; day++ {
		if g.Evaluate(day, false) != Allow {
			t.Errorf("day %d should be free", day)
		}
		if g.Evaluate(day, true) != Allow {
			t.Errorf("day %d should be allowed for paid users too", day)
		}
	}
}

func TestNewGate_DefaultLimit(t *testing.T) {
	g := NewGate(0)
	if g.FreeDayLimit != DefaultFreeDayLimit {
		t.Errorf("FreeDayLimit = %d, want %d", g.FreeDayLimit, DefaultFreeDayLimit)
	}
}
