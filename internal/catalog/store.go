// Package catalog stores the credit-card catalog the recommendation
// engine scores against. Structured card fields live in columns; the
// reward-rate map, caps, and benefits ride along as JSON blobs.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cardwise/internal/core"

	_ "modernc.org/sqlite"
)

// ErrCardNotFound is returned when a card id is not in the catalog.
var ErrCardNotFound = errors.New("card not found")

// Store is the catalog surface the services depend on.
type Store interface {
	ActiveCards(ctx context.Context) ([]core.CreditCard, error)
	GetCard(ctx context.Context, id string) (core.CreditCard, error)
	UpsertCard(ctx context.Context, card core.CreditCard) error
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const cardColumns = `id, name, issuer, annual_fee, first_year_waived, fee_waiver_spend,
	military_waiver, base_rate, reward_rates, caps, welcome_bonus, point_value_cents,
	optimal_value_cents, foreign_fee_pct, credit_tier, benefits, active`

func (s *SQLiteStore) ActiveCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query active cards: %w", err)
	}
	defer rows.Close()

	var cards []core.CreditCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

func (s *SQLiteStore) GetCard(ctx context.Context, id string) (core.CreditCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, ErrCardNotFound
	}
	return card, err
}

func (s *SQLiteStore) UpsertCard(ctx context.Context, card core.CreditCard) error {
	if card.ID == "" {
		return errors.New("card id required")
	}
	rates, err := json.Marshal(card.RewardRates)
	if err != nil {
		return fmt.Errorf("encode reward rates: %w", err)
	}
	caps, err := json.Marshal(card.Caps)
	if err != nil {
		return fmt.Errorf("encode caps: %w", err)
	}
	benefits, err := json.Marshal(card.Benefits)
	if err != nil {
		return fmt.Errorf("encode benefits: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			issuer = excluded.issuer,
			annual_fee = excluded.annual_fee,
			first_year_waived = excluded.first_year_waived,
			fee_waiver_spend = excluded.fee_waiver_spend,
			military_waiver = excluded.military_waiver,
			base_rate = excluded.base_rate,
			reward_rates = excluded.reward_rates,
			caps = excluded.caps,
			welcome_bonus = excluded.welcome_bonus,
			point_value_cents = excluded.point_value_cents,
			optimal_value_cents = excluded.optimal_value_cents,
			foreign_fee_pct = excluded.foreign_fee_pct,
			credit_tier = excluded.credit_tier,
			benefits = excluded.benefits,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP`,
		card.ID, card.Name, card.Issuer, card.AnnualFee, card.FirstYearWaived,
		card.FeeWaiverSpend, card.MilitaryWaiver, card.BaseRate, string(rates),
		string(caps), card.WelcomeBonus, card.PointValueCents, card.OptimalValueCents,
		card.ForeignFeePct, card.CreditTier, string(benefits), card.Active)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", card.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (core.CreditCard, error) {
	var (
		card     core.CreditCard
		rates    string
		caps     string
		benefits []byte
	)
	err := row.Scan(&card.ID, &card.Name, &card.Issuer, &card.AnnualFee,
		&card.FirstYearWaived, &card.FeeWaiverSpend, &card.MilitaryWaiver,
		&card.BaseRate, &rates, &caps, &card.WelcomeBonus, &card.PointValueCents,
		&card.OptimalValueCents, &card.ForeignFeePct, &card.CreditTier,
		&benefits, &card.Active)
	if err != nil {
		return core.CreditCard{}, err
	}

	if rates != "" {
		if err := json.Unmarshal([]byte(rates), &card.RewardRates); err != nil {
			return core.CreditCard{}, fmt.Errorf("decode reward rates for %s: %w", card.ID, err)
		}
	}
	if caps != "" {
		if err := json.Unmarshal([]byte(caps), &card.Caps); err != nil {
			return core.CreditCard{}, fmt.Errorf("decode caps for %s: %w", card.ID, err)
		}
	}
	card.Benefits, err = core.UnmarshalBenefits(benefits)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("decode benefits for %s: %w", card.ID, err)
	}
	return card, nil
}
