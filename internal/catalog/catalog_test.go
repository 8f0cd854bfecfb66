package catalog

import (
	"testing"
	"testing/fstest"

	"smor/internal/domain"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, warn, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if len(warn) != 0 {
		t.Fatalf("default catalog should load cleanly, got warnings: %v", warn)
	}
	if len(cat.Places) != 4 {
		t.Fatalf("places = %d, want 4", len(cat.Places))
	}

	for _, id := range []string{domain.CardBeer, domain.CardDrink, domain.CardShot, domain.CardIce} {
		if _, ok := cat.CardByID(id); !ok {
			t.Fatalf("default catalog is missing %s", id)
		}
	}
	for _, effect := range []domain.SpecialEffect{
		domain.SpecialCallFriend, domain.SpecialKnowBeer, domain.SpecialBongChoice,
		domain.SpecialRoundDrinks, domain.SpecialIcing, domain.SpecialChugBeer, domain.SpecialChugIce,
	} {
		if _, ok := cat.CardBySpecial(effect); !ok {
			t.Fatalf("default catalog has no card with %s", effect)
		}
	}
	if len(cat.NPCs) < 3 {
		t.Fatalf("need at least a full town of NPCs, got %d", len(cat.NPCs))
	}
}

func TestDefaultVenueEffects(t *testing.T) {
	cat, _, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	byName := map[string]*domain.Place{}
	for _, p := range cat.Places {
		byName[p.Name] = p
	}

	tacos := byName["Los Tacos"]
	if tacos == nil || !tacos.Effects.BeerDouble || !tacos.Effects.RingFriendBonus || tacos.HasBouncer {
		t.Fatalf("Los Tacos effects wrong: %+v", tacos)
	}
	herslebs := byName["Herslebs"]
	if herslebs == nil || herslebs.Effects.PhaseBonus == nil || herslebs.Effects.Rescue == nil {
		t.Fatalf("Herslebs effects missing: %+v", herslebs)
	}
	if herslebs.Effects.PhaseBonus.Phase != domain.PhaseVors || herslebs.Effects.PhaseBonus.Delta != 0.5 {
		t.Fatalf("Herslebs phase bonus = %+v", herslebs.Effects.PhaseBonus)
	}
	if r := herslebs.Effects.Rescue; r.Phase != domain.PhaseNach || r.Threshold != 4 || r.Target != 3 {
		t.Fatalf("Herslebs rescue override = %+v", r)
	}
	if oc := byName["O'Connors"]; oc == nil || oc.Effects.RoundScoreBonus != 1 || !oc.HasBouncer {
		t.Fatalf("O'Connors effects wrong: %+v", oc)
	}
	if plaza := byName["Oslo Plaza"]; plaza == nil || !plaza.Effects.BeerAsDrink || !plaza.HasBouncer {
		t.Fatalf("Oslo Plaza effects wrong: %+v", plaza)
	}
}

func TestLoadReportsUnknownEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"data/cards.json":  {Data: []byte(`[{"id":"odd","name":"Odd","special":"teleport"}]`)},
		"data/places.json": {Data: []byte(`[{"name":"Nowhere","effects":{"free_pizza":true,"fest_promille_bonus":1}}]`)},
		"data/npcs.json":   {Data: []byte(`[{"name":"Ghost","effects":{"haunt":2,"double_beer":true,"promille_penalty":-0.5}}]`)},
	}
	cat, warn, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warn) != 3 {
		t.Fatalf("warnings = %v, want 3", warn)
	}
	if cat.Cards[0].Special != domain.SpecialNone {
		t.Fatalf("unknown special should degrade to none")
	}
	if pb := cat.Places[0].Effects.PhaseBonus; pb == nil || pb.Phase != domain.PhaseFest || pb.Delta != 1 {
		t.Fatalf("fest bonus not parsed: %+v", pb)
	}
	ghost := cat.NPCs[0].Effects
	if ghost.DoubleBeer != 0.5 || ghost.IntoxicationBonus != -0.5 {
		t.Fatalf("ghost effects = %+v", ghost)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(fstest.MapFS{}); err == nil {
		t.Fatalf("expected error for empty filesystem")
	}
}
