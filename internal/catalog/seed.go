package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"cardwise/internal/core"
)

//go:embed seed.json
var defaultSeed []byte

// SeedFromJSON loads a JSON card array into the store, upserting by id
// so reseeding an existing catalog is safe.
func SeedFromJSON(ctx context.Context, store Store, data []byte) (int, error) {
	var cards []core.CreditCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return 0, fmt.Errorf("decode card seed: %w", err)
	}
	for i, card := range cards {
		if card.ID == "" {
			return i, fmt.Errorf("seed card %d has no id", i)
		}
		if err := store.UpsertCard(ctx, card); err != nil {
			return i, fmt.Errorf("seed card %s: %w", card.ID, err)
		}
	}
	return len(cards), nil
}

// SeedDefault loads the embedded starter catalog.
func SeedDefault(ctx context.Context, store Store) (int, error) {
	return SeedFromJSON(ctx, store, defaultSeed)
}
