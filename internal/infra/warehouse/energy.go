package warehouse

import (
	"context"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type EnergyRepository struct {
	db querier
}

func NewEnergyRepository(pool *pgxpool.Pool) *EnergyRepository {
	return &EnergyRepository{db: pool}
}

var _ repo.EnergyRepository = (*EnergyRepository)(nil)

func (r *EnergyRepository) Countries(ctx context.Context) ([]string, error) {
	out, err := collectStrings(ctx, r.db, `
SELECT DISTINCT g.country_name
FROM fact_energy f
JOIN dim_geo g ON g.geo_key = f.geo_key
ORDER BY 1`)
	return out, errors.Wrap(err, "energy countries")
}

func (r *EnergyRepository) YearRange(ctx context.Context) (int, int, error) {
	var lo, hi int
	err := r.db.QueryRow(ctx, `
SELECT COALESCE(MIN(d.year), 0)::int, COALESCE(MAX(d.year), 0)::int
FROM fact_energy f
JOIN dim_date d ON d.date_key = f.date_key`).Scan(&lo, &hi)
	if err != nil {
		return 0, 0, errors.Wrap(err, "energy year range")
	}
	return lo, hi, nil
}

const energyYearlySQL = `
SELECT
	g.country_name,
	d.year::int,
	f.biomass, f.coal, f.geothermal, f.hydro, f.natural_gas,
	f.oil, f.solar, f.wind, f.nuclear, f.renewable, f.grand_total
FROM fact_energy f
JOIN dim_date d ON d.date_key = f.date_key
JOIN dim_geo g ON g.geo_key = f.geo_key
WHERE d.year BETWEEN $1 AND $2`

// 国は名前でもコード（PHなど）でも指定できる
func (r *EnergyRepository) Yearly(ctx context.Context, startYear, endYear int, countries []string) ([]model.EnergyYear, error) {
	sql := energyYearlySQL
	args := []any{startYear, endYear}
	if len(countries) > 0 {
		sql += "\n\tAND (g.country_name = ANY($3) OR g.country_code = ANY($3))"
		args = append(args, countries)
	}
	sql += "\nORDER BY g.country_name, d.year"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "energy yearly")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EnergyYear, error) {
		var e model.EnergyYear
		err := row.Scan(
			&e.Country, &e.Year,
			&e.Biomass, &e.Coal, &e.Geothermal, &e.Hydro, &e.NaturalGas,
			&e.Oil, &e.Solar, &e.Wind, &e.Nuclear, &e.Renewable, &e.GrandTotal,
		)
		return e, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan energy yearly")
	}
	return out, nil
}

func (r *EnergyRepository) Temperatures(ctx context.Context, startYear, endYear int) ([]model.YearTemperature, error) {
	rows, err := r.db.Query(ctx, `
SELECT d.year::int, w.avg_mean_temp_deg_c
FROM fact_weather w
JOIN dim_date d ON d.date_key = w.date_key
WHERE d.year BETWEEN $1 AND $2
ORDER BY d.year`, startYear, endYear)
	if err != nil {
		return nil, errors.Wrap(err, "temperatures")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.YearTemperature, error) {
		var t model.YearTemperature
		err := row.Scan(&t.Year, &t.AvgMeanTemp)
		return t, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan temperatures")
	}
	return out, nil
}
