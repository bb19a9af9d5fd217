package models

import "testing"

func TestExperienceCatalogShape(t *testing.T) {
	if len(ExperienceCatalog) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(ExperienceCatalog))
	}

	total := 0
	seen := map[string]string{}
	for _, cat := range ExperienceCatalog {
		if cat.Name == "" {
			t.Fatal("category with empty name")
		}
		for _, tag := range cat.Tags {
			if prev, dup := seen[tag.Value]; dup {
				t.Fatalf("tag %q appears in both %q and %q", tag.Value, prev, cat.Name)
			}
			seen[tag.Value] = cat.Name
			if tag.Label == "" {
				t.Fatalf("tag %q has no label", tag.Value)
			}
			total++
		}
	}
	if total != 25 {
		t.Fatalf("expected 25 tags, got %d", total)
	}
}

func TestValidExperienceType(t *testing.T) {
	for _, v := range []string{"customer_service", "barista", "pos_system", "favourite_recurring", "other"} {
		if !ValidExperienceType(v) {
			t.Errorf("%q should be a valid experience type", v)
		}
	}
	for _, v := range []string{"", "astronaut", "Customer_Service", "CUSTOMER_SERVICE"} {
		if ValidExperienceType(v) {
			t.Errorf("%q should not be a valid experience type", v)
		}
	}
}
