package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// LootTier is a loot rarity bucket with a fixed selection weight.
type LootTier int

const (
	TierCommon LootTier = iota
	TierUncommon
	TierRare
	TierEpic
	TierLegendary
)

type tierInfo struct {
	name            string
	weight          int
	color           string
	enchantChance   float64
	maxEnchantLevel int
}

// tierTable fixes the rarity distribution: 50/30/15/4/1 percent. Weights
// must sum to weightTotal; RandomTier relies on that.
var tierTable = [...]tierInfo{
	TierCommon:    {name: "common", weight: 50, color: "white"},
	TierUncommon:  {name: "uncommon", weight: 30, color: "green"},
	TierRare:      {name: "rare", weight: 15, color: "blue"},
	TierEpic:      {name: "epic", weight: 4, color: "purple", enchantChance: 0.5, maxEnchantLevel: 2},
	TierLegendary: {name: "legendary", weight: 1, color: "gold", enchantChance: 0.9, maxEnchantLevel: 4},
}

const weightTotal = 100

func (t LootTier) valid() bool {
	return t >= TierCommon && t <= TierLegendary
}

func (t LootTier) String() string {
	if !t.valid() {
		return "unknown"
	}
	return tierTable[t].name
}

// Weight returns the tier's selection weight out of 100.
func (t LootTier) Weight() int {
	if !t.valid() {
		return 0
	}
	return tierTable[t].weight
}

// Color returns the tier's display color name.
func (t LootTier) Color() string {
	if !t.valid() {
		return ""
	}
	return tierTable[t].color
}

// EnchantChance returns the probability a generated item of this tier rolls
// an enchantment.
func (t LootTier) EnchantChance() float64 {
	if !t.valid() {
		return 0
	}
	return tierTable[t].enchantChance
}

// MaxEnchantLevel returns the highest enchantment level this tier can roll.
func (t LootTier) MaxEnchantLevel() int {
	if !t.valid() {
		return 0
	}
	return tierTable[t].maxEnchantLevel
}

// TierByName resolves a tier from its config name.
func TierByName(name string) (LootTier, bool) {
	for i, info := range tierTable {
		if info.name == name {
			return LootTier(i), true
		}
	}
	return TierCommon, false
}

// RandomTier selects a tier by cumulative weight from a uniform draw in
// [0,100): common 0-49, uncommon 50-79, rare 80-94, epic 95-98,
// legendary 99.
func RandomTier(rng *rand.Rand) LootTier {
	roll := rng.Intn(weightTotal)
	for i := range tierTable {
		if roll < tierTable[i].weight {
			return LootTier(i)
		}
		roll -= tierTable[i].weight
	}
	// Unreachable while the weights sum to weightTotal.
	return TierCommon
}

// LootEntry is one configured drop within a tier.
type LootEntry struct {
	Item   string
	MinQty int
	MaxQty int
}

// LootItem is a generated drop instance.
type LootItem struct {
	InstanceID   string   `json:"instance_id"`
	Item         string   `json:"item"`
	Tier         LootTier `json:"tier"`
	Quantity     int      `json:"quantity"`
	EnchantLevel int      `json:"enchant_level"`
}

// fallbackItem is granted when a tier has no configured entries, so
// generation never fails mid-match over a configuration gap.
const fallbackItem = "bandage"

// LootTable generates items from tier-bucketed entry lists using an injected
// random source.
type LootTable struct {
	entries map[LootTier][]LootEntry
	rng     *rand.Rand
}

// NewLootTable constructs a LootTable with the provided rng or a time-seeded
// default.
func NewLootTable(rng *rand.Rand) *LootTable {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LootTable{
		entries: make(map[LootTier][]LootEntry),
		rng:     rng,
	}
}

// AddLoot appends an entry to a tier's drop list. Rejected (false) for an
// invalid tier, empty item kind, or an inverted quantity range.
func (lt *LootTable) AddLoot(tier LootTier, item string, minQty, maxQty int) bool {
	if !tier.valid() || item == "" || minQty < 1 || minQty > maxQty {
		return false
	}
	lt.entries[tier] = append(lt.entries[tier], LootEntry{Item: item, MinQty: minQty, MaxQty: maxQty})
	return true
}

// EntryCount returns how many entries a tier holds.
func (lt *LootTable) EntryCount(tier LootTier) int {
	return len(lt.entries[tier])
}

// GenerateLoot produces exactly count items from the given tier, each drawn
// uniformly from the tier's entries with quantity uniform in [min,max]. A
// tier with no entries yields fallback items rather than failing.
func (lt *LootTable) GenerateLoot(tier LootTier, count int) []LootItem {
	items := make([]LootItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, lt.generateOne(tier))
	}
	return items
}

// GenerateMixedLoot produces count items, selecting a tier per item via
// RandomTier before drawing from it.
func (lt *LootTable) GenerateMixedLoot(count int) []LootItem {
	items := make([]LootItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, lt.generateOne(RandomTier(lt.rng)))
	}
	return items
}

func (lt *LootTable) generateOne(tier LootTier) LootItem {
	pool := lt.entries[tier]
	if len(pool) == 0 {
		return LootItem{
			InstanceID: uuid.NewString(),
			Item:       fallbackItem,
			Tier:       tier,
			Quantity:   1,
		}
	}

	entry := pool[lt.rng.Intn(len(pool))]
	qty := entry.MinQty
	if entry.MaxQty > entry.MinQty {
		qty += lt.rng.Intn(entry.MaxQty - entry.MinQty + 1)
	}

	item := LootItem{
		InstanceID: uuid.NewString(),
		Item:       entry.Item,
		Tier:       tier,
		Quantity:   qty,
	}
	if chance := tier.EnchantChance(); chance > 0 && lt.rng.Float64() < chance {
		item.EnchantLevel = 1 + lt.rng.Intn(tier.MaxEnchantLevel())
	}
	return item
}
