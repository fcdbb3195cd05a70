package catalog

import "testing"

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	if cat.Len() != 24 {
		t.Fatalf("expected 24 letters, got %d", cat.Len())
	}

	alpha, err := cat.ByID(1)
	if err != nil {
		t.Fatalf("ByID(1) failed: %v", err)
	}
	if alpha.Name != "Alpha" || alpha.Uppercase != "Α" || alpha.Lowercase != "α" {
		t.Errorf("unexpected first letter: %+v", alpha)
	}

	omega, err := cat.ByName("Omega")
	if err != nil {
		t.Fatalf("ByName(Omega) failed: %v", err)
	}
	if omega.Position != 24 {
		t.Errorf("expected Omega at position 24, got %d", omega.Position)
	}

	if _, err := cat.ByID(99); err == nil {
		t.Error("expected an error for an unknown id")
	}
	if _, err := cat.ByName("Digamma"); err == nil {
		t.Error("expected an error for an archaic letter")
	}
}

func TestConfusablesExcludeTargetAndStayInCatalog(t *testing.T) {
	cat := Default()
	for _, l := range cat.Letters() {
		for _, c := range cat.Confusables(l) {
			if c.ID == l.ID {
				t.Errorf("%s listed as confusable with itself", l.Name)
			}
			if _, err := cat.ByID(c.ID); err != nil {
				t.Errorf("confusable %s of %s not in catalog", c.Name, l.Name)
			}
		}
	}
}

func TestConfusablesRespectCatalogSubset(t *testing.T) {
	subset := New([]Letter{
		{ID: 8, Name: "Theta", Uppercase: "Θ", Lowercase: "θ", Position: 8},
		{ID: 21, Name: "Phi", Uppercase: "Φ", Lowercase: "φ", Position: 21},
	})
	theta, _ := subset.ByName("Theta")

	got := subset.Confusables(theta)
	if len(got) != 1 || got[0].Name != "Phi" {
		t.Errorf("expected only in-catalog confusables, got %v", got)
	}
}
