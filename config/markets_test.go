package config

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if c.Len() != 5 {
		t.Fatalf("markets: got %d, want 5", c.Len())
	}

	keys := c.Keys()
	if keys[0] != "robusta_london" || keys[1] != "arabica_newyork" {
		t.Errorf("international markets must lead: %v", keys)
	}

	london, ok := c.Get("robusta_london")
	if !ok {
		t.Fatal("missing robusta_london")
	}
	if london.MinPlausible != 2000 || london.MaxPlausible != 8000 {
		t.Errorf("london range: got (%v, %v)", london.MinPlausible, london.MaxPlausible)
	}
	if london.Domestic {
		t.Error("london is not a domestic market")
	}

	domestic := 0
	for _, key := range keys {
		m, _ := c.Get(key)
		if m.Domestic {
			domestic++
			if m.Unit != "VND/kg" {
				t.Errorf("%s unit: got %q, want VND/kg", key, m.Unit)
			}
		}
		if m.Estimate <= 0 {
			t.Errorf("%s has no estimate", key)
		}
		if m.MinPlausible >= m.MaxPlausible {
			t.Errorf("%s range inverted: (%v, %v)", key, m.MinPlausible, m.MaxPlausible)
		}
	}
	if domestic != 3 {
		t.Errorf("domestic markets: got %d, want 3", domestic)
	}
}

func TestCatalogUnknownKey(t *testing.T) {
	if _, ok := DefaultCatalog().Get("cocoa_london"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestNewCatalogDropsDuplicateKeys(t *testing.T) {
	c := NewCatalog(
		Market{Key: "x", MinPlausible: 1, MaxPlausible: 2, Estimate: 1},
		Market{Key: "x", MinPlausible: 10, MaxPlausible: 20, Estimate: 15},
	)

	if c.Len() != 1 {
		t.Fatalf("len: got %d, want 1", c.Len())
	}
	m, _ := c.Get("x")
	if m.MinPlausible != 1 {
		t.Error("first registration should win")
	}
}

func TestCatalogKeysIsACopy(t *testing.T) {
	c := DefaultCatalog()
	keys := c.Keys()
	keys[0] = "mutated"

	if c.Keys()[0] != "robusta_london" {
		t.Error("Keys must return a copy, not the internal slice")
	}
}
