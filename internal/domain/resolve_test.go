package domain

import "testing"

var testRange = Range{Min: 1, Max: 400}

func TestResolveToken_NumericInRange(t *testing.T) {
	out, ok := ResolveToken("57", testRange)
	if !ok || !out.IsTarget() || out.Target != "57" {
		t.Fatalf("ResolveToken(57) = %v, %v", out, ok)
	}
}

func TestResolveToken_ConfusedEqualsDigits(t *testing.T) {
	// A token confusable with digit string d must resolve like d itself.
	pairs := [][2]string{
		{"I57", "157"},
		{"2O3", "203"},
		{"4OO", "400"},
		{"3S", "35"},
	}
	for _, p := range pairs {
		confused, okC := ResolveToken(p[0], testRange)
		plain, okP := ResolveToken(p[1], testRange)
		if okC != okP {
			t.Fatalf("resolve(%q) ok=%v, resolve(%q) ok=%v", p[0], okC, p[1], okP)
		}
		if confused.Target != plain.Target {
			t.Errorf("resolve(%q) = %s, resolve(%q) = %s", p[0], confused, p[1], plain)
		}
	}
}

func TestResolveToken_DeathKeywords(t *testing.T) {
	for _, token := range []string{"death", "you are dead", "killed by the troll", "slain", "You die here."} {
		out, ok := ResolveToken(token, testRange)
		if !ok || out.Terminal == nil || out.Terminal.Kind != TerminalDeath {
			t.Errorf("ResolveToken(%q) = %s, want terminal death", token, out)
		}
	}
}

func TestResolveToken_EmbeddedNumeral(t *testing.T) {
	out, ok := ResolveToken("turn to 234 at once", testRange)
	if !ok || out.Target != "234" {
		t.Fatalf("ResolveToken embedded = %s, %v", out, ok)
	}
}

func TestResolveToken_ContinueKeywords(t *testing.T) {
	for _, token := range []string{"continue reading", "if you are still alive", "if alive"} {
		if out, ok := ResolveToken(token, testRange); ok {
			t.Errorf("ResolveToken(%q) = %s, want no outcome", token, out)
		}
	}
}

func TestResolveToken_StillAliveWithNumeralJumps(t *testing.T) {
	// An embedded numeral wins over the continue keyword: the text means
	// "if you survive, go to 88".
	out, ok := ResolveToken("if you are still alive turn to 88", testRange)
	if !ok || out.Target != "88" {
		t.Fatalf("got %s, %v", out, ok)
	}
}

func TestResolveToken_UnresolvableIsTerminalOther(t *testing.T) {
	out, ok := ResolveToken("consult the map", testRange)
	if !ok || out.Terminal == nil || out.Terminal.Kind != TerminalOther {
		t.Fatalf("got %s, %v, want terminal other", out, ok)
	}
	if out.Terminal.Message != "consult the map" {
		t.Errorf("raw token not preserved: %q", out.Terminal.Message)
	}
}

func TestResolveToken_OutOfRangeNumeralFallsThrough(t *testing.T) {
	// 999 is outside [1,400]: not a valid target, recorded for forensics.
	out, ok := ResolveToken("999", testRange)
	if !ok || out.Terminal == nil || out.Terminal.Kind != TerminalOther {
		t.Fatalf("ResolveToken(999) = %s, %v, want terminal other", out, ok)
	}
}

func TestResolveToken_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		out, ok := ResolveToken("I57", testRange)
		if !ok || out.Target != "157" {
			t.Fatalf("iteration %d: got %s, %v", i, out, ok)
		}
	}
}
