package usecase

import (
	"testing"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/lexicon"
)

func newTestClassifier() *Classifier {
	return NewClassifier(lexicon.Default(), false)
}

func TestNormalize(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "FROZEN Shrimp", "frozen shrimp"},
		{"collapses whitespace", "cod   fillet\t 1kg", "cod fillet 1kg"},
		{"keeps caliber slash", "Shrimp 16/20", "shrimp 16/20"},
		{"keeps range dash", "fillet 300-400g", "fillet 300-400g"},
		{"keeps ampersand", "shrimp P&D", "shrimp p&d"},
		{"strips exotic punctuation", "shrimp «premium»!", "shrimp premium"},
		{"folds diacritics", "filé de cabillaud", "file de cabillaud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyTerminalStates(t *testing.T) {
	c := newTestClassifier()

	t.Run("empty text is not classified", func(t *testing.T) {
		cls := c.Classify("")
		if cls.Classified() {
			t.Fatal("Classified() = true, want false")
		}
		if cls.Code != domain.ReasonRefNotClassified {
			t.Errorf("code = %s, want %s", cls.Code, domain.ReasonRefNotClassified)
		}
	})

	t.Run("numbers only is not classified", func(t *testing.T) {
		cls := c.Classify("12345 678")
		if cls.Code != domain.ReasonRefNotClassified {
			t.Errorf("code = %s, want %s", cls.Code, domain.ReasonRefNotClassified)
		}
	})

	t.Run("forbidden class is excluded", func(t *testing.T) {
		cls := c.Classify("dried shrimp cat food 50g")
		if cls.Code != domain.ReasonSourceExcluded {
			t.Errorf("code = %s, want %s", cls.Code, domain.ReasonSourceExcluded)
		}
		if cls.Signature.Domain != domain.DomainExcluded {
			t.Errorf("domain = %s, want %s", cls.Signature.Domain, domain.DomainExcluded)
		}
	})

	t.Run("invalid caliber band fails parsing", func(t *testing.T) {
		// 20/16 is caliber-shaped but inverted, so it neither parses nor
		// falls through as unclassified noise.
		cls := c.Classify("shrimp frozen peeled 20/16")
		if cls.Code != domain.ReasonRefParseFailed {
			t.Errorf("code = %s, want %s", cls.Code, domain.ReasonRefParseFailed)
		}
	})
}

func TestClassifyShrimp(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify("Frozen Vannamei Shrimp 16/20 peeled tail-on 10x1kg box")
	if !cls.Classified() {
		t.Fatalf("not classified: %s", cls.Code)
	}

	sig := cls.Signature
	if sig.Domain != domain.DomainShrimp {
		t.Fatalf("domain = %s, want %s", sig.Domain, domain.DomainShrimp)
	}

	a := sig.Shrimp()
	if a == nil {
		t.Fatal("Shrimp() = nil")
	}
	if a.Species != "vannamei" {
		t.Errorf("species = %q, want vannamei", a.Species)
	}
	if a.State != "frozen" {
		t.Errorf("state = %q, want frozen", a.State)
	}
	if a.Form != "peeled" {
		t.Errorf("form = %q, want peeled", a.Form)
	}
	if a.TailState != domain.TriOn {
		t.Errorf("tail state = %s, want on", a.TailState)
	}
	if a.Breaded != domain.TriUnknown {
		t.Errorf("breaded = %s, want unknown", a.Breaded)
	}
	if a.Caliber != (domain.Caliber{Min: 16, Max: 20}) {
		t.Errorf("caliber = %+v, want 16/20", a.Caliber)
	}
	if sig.UnitType != domain.UnitWeight || sig.NetBaseQty != 10000 {
		t.Errorf("unit = %s/%g, want WEIGHT/10000", sig.UnitType, sig.NetBaseQty)
	}
	if !sig.IsBox {
		t.Error("IsBox = false, want true")
	}
	if sig.CoreID != "shrimp:vannamei" {
		t.Errorf("core = %q, want shrimp:vannamei", sig.CoreID)
	}
}

func TestClassifyFillet(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify("Cod fillet skinless frozen 400g Murmansk")
	if !cls.Classified() {
		t.Fatalf("not classified: %s", cls.Code)
	}

	sig := cls.Signature
	if sig.Domain != domain.DomainFishFillet {
		t.Fatalf("domain = %s, want %s", sig.Domain, domain.DomainFishFillet)
	}

	a := sig.Fillet()
	if a == nil {
		t.Fatal("Fillet() = nil")
	}
	if a.Species != "cod" {
		t.Errorf("species = %q, want cod", a.Species)
	}
	if a.CutType != "fillet" {
		t.Errorf("cut type = %q, want fillet", a.CutType)
	}
	if a.Skin != domain.TriOff {
		t.Errorf("skin = %s, want off", a.Skin)
	}
	if sig.NetBaseQty != 400 {
		t.Errorf("qty = %g, want 400", sig.NetBaseQty)
	}
	if sig.Origin.City != "murmansk" || sig.Origin.Country != "RU" {
		t.Errorf("origin = %+v, want murmansk/RU", sig.Origin)
	}
	if sig.CoreID != "fish:cod" {
		t.Errorf("core = %q, want fish:cod", sig.CoreID)
	}
}

func TestClassifyUnderCaliber(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify("black tiger shrimp U-10 frozen")
	a := cls.Signature.Shrimp()
	if a == nil {
		t.Fatal("Shrimp() = nil")
	}
	if a.Caliber != (domain.Caliber{Min: 0, Max: 10}) {
		t.Errorf("caliber = %+v, want (0,10)", a.Caliber)
	}
	if a.Species != "black_tiger" {
		t.Errorf("species = %q, want black_tiger", a.Species)
	}
}

func TestClassifyDashCaliber(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify("vannamei shrimp frozen 16-20 pcs 1kg")
	if !cls.Classified() {
		t.Fatalf("not classified: %s", cls.Code)
	}

	sig := cls.Signature
	a := sig.Shrimp()
	if a == nil {
		t.Fatal("Shrimp() = nil")
	}
	if a.Caliber != (domain.Caliber{Min: 16, Max: 20}) {
		t.Errorf("caliber = %+v, want 16/20", a.Caliber)
	}
	// The count-unit band must not shadow the real net weight on the label.
	if sig.UnitType != domain.UnitWeight || sig.NetBaseQty != 1000 {
		t.Errorf("unit = %s/%g, want WEIGHT/1000", sig.UnitType, sig.NetBaseQty)
	}

	t.Run("inverted band fails parsing", func(t *testing.T) {
		cls := c.Classify("shrimp frozen peeled 20-16 pcs")
		if cls.Code != domain.ReasonRefParseFailed {
			t.Errorf("code = %s, want %s", cls.Code, domain.ReasonRefParseFailed)
		}
	})
}

func TestClassifyGuardOverride(t *testing.T) {
	c := newTestClassifier()

	// "shrimp" is a domain token, but the analog guard must win.
	cls := c.Classify("shrimp flavored crackers 50g")
	if cls.Signature.Domain != domain.DomainGeneric {
		t.Errorf("domain = %s, want %s", cls.Signature.Domain, domain.DomainGeneric)
	}
}

func TestClassifyContextualInference(t *testing.T) {
	c := newTestClassifier()

	t.Run("caliber plus two markers infers graded domain", func(t *testing.T) {
		// No explicit domain token, but a caliber band plus frozen and
		// peeled markers.
		cls := c.Classify("seafood frozen peeled 16/20 1kg")
		if cls.Signature.Domain != domain.DomainShrimp {
			t.Errorf("domain = %s, want %s", cls.Signature.Domain, domain.DomainShrimp)
		}
	})

	t.Run("caliber alone stays generic", func(t *testing.T) {
		cls := c.Classify("seafood mix 16/20 1kg")
		if cls.Signature.Domain != domain.DomainGeneric {
			t.Errorf("domain = %s, want %s", cls.Signature.Domain, domain.DomainGeneric)
		}
	})

	t.Run("no evidence stays generic", func(t *testing.T) {
		cls := c.Classify("olive oil extra virgin 1l")
		if cls.Signature.Domain != domain.DomainGeneric {
			t.Errorf("domain = %s, want %s", cls.Signature.Domain, domain.DomainGeneric)
		}
		if cls.Signature.CoreID != "generic:olive" {
			t.Errorf("core = %q, want generic:olive", cls.Signature.CoreID)
		}
	})
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()

	first := c.Classify("Frozen Vannamei Shrimp 16/20 1kg")
	for i := 0; i < 5; i++ {
		again := c.Classify("Frozen Vannamei Shrimp 16/20 1kg")
		if again.Signature.CoreID != first.Signature.CoreID ||
			again.Signature.Domain != first.Signature.Domain ||
			again.Signature.NetBaseQty != first.Signature.NetBaseQty {
			t.Fatalf("classification changed between runs: %+v vs %+v", again.Signature, first.Signature)
		}
	}
}
