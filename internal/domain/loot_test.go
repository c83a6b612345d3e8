package domain

import (
	"math/rand"
	"testing"
)

func TestTierWeightsSumToOneHundred(t *testing.T) {
	sum := 0
	for tier := TierCommon; tier <= TierLegendary; tier++ {
		sum += tier.Weight()
	}
	if sum != 100 {
		t.Fatalf("weight sum = %d, want 100", sum)
	}
}

func TestRandomTierDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const draws = 100000

	counts := make(map[LootTier]int)
	for i := 0; i < draws; i++ {
		counts[RandomTier(rng)]++
	}

	commonFrac := float64(counts[TierCommon]) / draws
	if commonFrac < 0.45 || commonFrac > 0.55 {
		t.Fatalf("common fraction = %v, want within [0.45, 0.55]", commonFrac)
	}
	legendaryFrac := float64(counts[TierLegendary]) / draws
	if legendaryFrac < 0.005 || legendaryFrac > 0.02 {
		t.Fatalf("legendary fraction = %v, want within [0.005, 0.02]", legendaryFrac)
	}
	for tier := TierCommon; tier <= TierLegendary; tier++ {
		if counts[tier] == 0 {
			t.Fatalf("tier %s never drawn over %d draws", tier, draws)
		}
	}
}

func TestAddLootValidation(t *testing.T) {
	lt := NewLootTable(rand.New(rand.NewSource(1)))

	tests := []struct {
		name string
		tier LootTier
		item string
		min  int
		max  int
		want bool
	}{
		{name: "valid entry", tier: TierCommon, item: "wooden_sword", min: 1, max: 1, want: true},
		{name: "valid range", tier: TierRare, item: "arrow", min: 4, max: 16, want: true},
		{name: "inverted range", tier: TierCommon, item: "apple", min: 5, max: 2, want: false},
		{name: "zero quantity", tier: TierCommon, item: "apple", min: 0, max: 3, want: false},
		{name: "empty item", tier: TierEpic, item: "", min: 1, max: 1, want: false},
		{name: "invalid tier", tier: LootTier(9), item: "apple", min: 1, max: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lt.AddLoot(tt.tier, tt.item, tt.min, tt.max); got != tt.want {
				t.Fatalf("AddLoot = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateLootCountAndBounds(t *testing.T) {
	lt := NewLootTable(rand.New(rand.NewSource(3)))
	lt.AddLoot(TierCommon, "apple", 1, 5)
	lt.AddLoot(TierCommon, "arrow", 8, 16)

	items := lt.GenerateLoot(TierCommon, 200)
	if len(items) != 200 {
		t.Fatalf("items = %d, want exactly 200", len(items))
	}
	for _, it := range items {
		if it.Tier != TierCommon {
			t.Fatalf("tier = %s, want common", it.Tier)
		}
		if it.InstanceID == "" {
			t.Fatalf("item missing instance id")
		}
		switch it.Item {
		case "apple":
			if it.Quantity < 1 || it.Quantity > 5 {
				t.Fatalf("apple quantity = %d, want within [1,5]", it.Quantity)
			}
		case "arrow":
			if it.Quantity < 8 || it.Quantity > 16 {
				t.Fatalf("arrow quantity = %d, want within [8,16]", it.Quantity)
			}
		default:
			t.Fatalf("unexpected item %q", it.Item)
		}
		if it.EnchantLevel != 0 {
			t.Fatalf("common item rolled enchant level %d", it.EnchantLevel)
		}
	}
}

func TestGenerateLootEmptyTierFallsBack(t *testing.T) {
	lt := NewLootTable(rand.New(rand.NewSource(5)))

	items := lt.GenerateLoot(TierLegendary, 3)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3 even with no entries", len(items))
	}
	for _, it := range items {
		if it.Item != fallbackItem || it.Quantity != 1 {
			t.Fatalf("fallback item = %+v, want %s x1", it, fallbackItem)
		}
	}
}

func TestGenerateLootEnchantBounds(t *testing.T) {
	lt := NewLootTable(rand.New(rand.NewSource(11)))
	lt.AddLoot(TierLegendary, "dragon_blade", 1, 1)
	lt.AddLoot(TierEpic, "storm_bow", 1, 1)

	enchanted := 0
	for _, it := range lt.GenerateLoot(TierLegendary, 500) {
		if it.EnchantLevel > 0 {
			enchanted++
		}
		if it.EnchantLevel < 0 || it.EnchantLevel > TierLegendary.MaxEnchantLevel() {
			t.Fatalf("legendary enchant level = %d, want within [0,%d]", it.EnchantLevel, TierLegendary.MaxEnchantLevel())
		}
	}
	// 90 percent chance per legendary item; 500 draws make zero hits
	// astronomically unlikely.
	if enchanted == 0 {
		t.Fatalf("no legendary item rolled an enchantment over 500 draws")
	}

	for _, it := range lt.GenerateLoot(TierEpic, 500) {
		if it.EnchantLevel < 0 || it.EnchantLevel > TierEpic.MaxEnchantLevel() {
			t.Fatalf("epic enchant level = %d, want within [0,%d]", it.EnchantLevel, TierEpic.MaxEnchantLevel())
		}
	}
}

func TestGenerateMixedLoot(t *testing.T) {
	lt := NewLootTable(rand.New(rand.NewSource(13)))
	for tier := TierCommon; tier <= TierLegendary; tier++ {
		lt.AddLoot(tier, tier.String()+"_crate", 1, 2)
	}

	items := lt.GenerateMixedLoot(1000)
	if len(items) != 1000 {
		t.Fatalf("items = %d, want 1000", len(items))
	}
	seen := make(map[LootTier]int)
	for _, it := range items {
		seen[it.Tier]++
	}
	if seen[TierCommon] <= seen[TierLegendary] {
		t.Fatalf("common (%d) should dominate legendary (%d)", seen[TierCommon], seen[TierLegendary])
	}
}

func TestTierByName(t *testing.T) {
	if tier, ok := TierByName("epic"); !ok || tier != TierEpic {
		t.Fatalf("TierByName(epic) = %v, %v", tier, ok)
	}
	if _, ok := TierByName("mythic"); ok {
		t.Fatalf("TierByName accepted unknown name")
	}
}
