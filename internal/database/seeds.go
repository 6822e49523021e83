package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type seedMethod struct {
	Slug        string
	Name        string
	Description string
}

type seedPartner struct {
	MethodSlug   string
	Name         string
	Slug         string
	Website      string
	CostPerTonne int64
	Currency     string
	Disabled     bool
}

type seedRate struct {
	From string
	To   string
	Rate string
}

// DefaultOrganisationShortID identifies the organisation created by SeedData.
const DefaultOrganisationShortID = "org_default"

var removalMethods = []seedMethod{
	{"forestation", "Forestation", "Planting and protecting trees that store CO2 in biomass."},
	{"bio-oil", "Bio-oil sequestration", "Converting waste biomass to bio-oil and injecting it underground."},
	{"dac", "Direct air capture", "Filtering CO2 out of ambient air and storing it permanently."},
}

var removalPartners = []seedPartner{
	{MethodSlug: "forestation", Name: "Eden Reforestation", Slug: "eden", Website: "https://edenprojects.org", CostPerTonne: 552, Currency: "USD"},
	{MethodSlug: "bio-oil", Name: "Charm Industrial", Slug: "charm", Website: "https://charmindustrial.com", CostPerTonne: 60000, Currency: "USD"},
	{MethodSlug: "dac", Name: "Climeworks", Slug: "climeworks", Website: "https://climeworks.com", CostPerTonne: 100000, Currency: "CHF", Disabled: true},
}

// Identity pairs are stored explicitly; the pricing engine never assumes 1.0.
var conversionRates = []seedRate{
	{"CHF", "CHF", "1.0000"}, {"USD", "USD", "1.0000"}, {"GBP", "GBP", "1.0000"}, {"EUR", "EUR", "1.0000"},
	{"USD", "CHF", "0.9137"}, {"CHF", "USD", "1.0944"},
	{"USD", "EUR", "0.9213"}, {"EUR", "USD", "1.0854"},
	{"USD", "GBP", "0.7921"}, {"GBP", "USD", "1.2625"},
	{"CHF", "EUR", "1.0083"}, {"EUR", "CHF", "0.9918"},
	{"CHF", "GBP", "0.8669"}, {"GBP", "CHF", "1.1535"},
	{"EUR", "GBP", "0.8598"}, {"GBP", "EUR", "1.1631"},
}

// SeedData loads the reference catalogue used for local development. It is a
// no-op when removal methods already exist.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM removal_methods").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO customer_organisations (short_id, name) VALUES ($1, $2)",
		DefaultOrganisationShortID, "Default")
	if err != nil {
		return fmt.Errorf("insert organisation: %w", err)
	}

	methodIDs := make(map[string]string, len(removalMethods))
	for _, m := range removalMethods {
		var id string
		err := tx.QueryRow(ctx,
			"INSERT INTO removal_methods (slug, name, description) VALUES ($1, $2, $3) RETURNING id",
			m.Slug, m.Name, m.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert removal method %s: %w", m.Slug, err)
		}
		methodIDs[m.Slug] = id
	}
	log.Info().Int("count", len(removalMethods)).Msg("inserted removal methods")

	for _, p := range removalPartners {
		_, err := tx.Exec(ctx,
			`INSERT INTO removal_partners (removal_method_id, name, slug, website, cost_per_tonne, currency, disabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			methodIDs[p.MethodSlug], p.Name, p.Slug, p.Website, p.CostPerTonne, p.Currency, p.Disabled)
		if err != nil {
			return fmt.Errorf("insert removal partner %s: %w", p.Slug, err)
		}
	}
	log.Info().Int("count", len(removalPartners)).Msg("inserted removal partners")

	ratesAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range conversionRates {
		_, err := tx.Exec(ctx,
			`INSERT INTO currency_conversion_rates (from_currency, to_currency, rate, created_at)
			VALUES ($1, $2, $3::numeric, $4)`,
			r.From, r.To, r.Rate, ratesAt)
		if err != nil {
			return fmt.Errorf("insert rate %s-%s: %w", r.From, r.To, err)
		}
	}
	log.Info().Int("count", len(conversionRates)).Msg("inserted conversion rates")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Msg("seed data generation complete")
	return nil
}
