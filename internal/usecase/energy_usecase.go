package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
)

// フィリピン向けの画面は国を固定
var phCountries = []string{"PH"}

type Aggregation string

const (
	AggregateYear    Aggregation = "year"
	AggregateFive    Aggregation = "5-year"
	AggregateDecade  Aggregation = "decade"
	AggregateAllTime Aggregation = "all-time"
)

// 電源の名前と EnergyYear の列の対応
type energySource struct {
	name  string
	value func(model.EnergyYear) *float64
}

var (
	mixSources = []energySource{
		{"Coal", func(e model.EnergyYear) *float64 { return e.Coal }},
		{"Hydro", func(e model.EnergyYear) *float64 { return e.Hydro }},
		{"Natural Gas", func(e model.EnergyYear) *float64 { return e.NaturalGas }},
		{"Oil", func(e model.EnergyYear) *float64 { return e.Oil }},
		{"Nuclear", func(e model.EnergyYear) *float64 { return e.Nuclear }},
		{"Renewable", func(e model.EnergyYear) *float64 { return e.Renewable }},
	}
	greenSources = []energySource{
		{"Hydro", func(e model.EnergyYear) *float64 { return e.Hydro }},
		{"Solar", func(e model.EnergyYear) *float64 { return e.Solar }},
		{"Wind", func(e model.EnergyYear) *float64 { return e.Wind }},
		{"Biomass", func(e model.EnergyYear) *float64 { return e.Biomass }},
		{"Geothermal", func(e model.EnergyYear) *float64 { return e.Geothermal }},
	}
	nonRenewableSources = []string{"Coal", "Natural Gas", "Oil"}
)

// クエリ文字列そのまま
type EnergyParams struct {
	StartYear   string
	EndYear     string
	Countries   string
	Sources     string
	Aggregation string
}

type EnergyUsecase struct {
	energy repo.EnergyRepository
}

func NewEnergyUsecase(energy repo.EnergyRepository) *EnergyUsecase {
	return &EnergyUsecase{energy: energy}
}

func (u *EnergyUsecase) Filters(ctx context.Context) (model.EnergyFilterOptions, error) {
	countries, err := u.energy.Countries(ctx)
	if err != nil {
		return model.EnergyFilterOptions{}, internalError(err)
	}
	lo, hi, err := u.energy.YearRange(ctx)
	if err != nil {
		return model.EnergyFilterOptions{}, internalError(err)
	}
	if countries == nil {
		countries = []string{}
	}
	return model.EnergyFilterOptions{Countries: countries, MinYear: lo, MaxYear: hi}, nil
}

// 国×電源ごとの年次推移。値が無い年はnullのまま返す
func (u *EnergyUsecase) Mix(ctx context.Context, p EnergyParams) (map[string][]model.Point, error) {
	return u.series(ctx, p, pickSources(mixSources, splitList(p.Sources)))
}

func (u *EnergyUsecase) NonRenewable(ctx context.Context, p EnergyParams) (map[string][]model.Point, error) {
	return u.series(ctx, p, pickSources(mixSources, nonRenewableSources))
}

func (u *EnergyUsecase) series(ctx context.Context, p EnergyParams, sources []energySource) (map[string][]model.Point, error) {
	start, end, err := parseYearRange(p)
	if err != nil {
		return nil, err
	}

	rows, err := u.energy.Yearly(ctx, start, end, splitList(p.Countries))
	if err != nil {
		return nil, internalError(err)
	}

	out := map[string][]model.Point{}
	for _, row := range rows {
		for _, src := range sources {
			key := row.Country + " - " + src.name
			out[key] = append(out[key], model.Point{X: row.Year, Y: src.value(row)})
		}
	}
	return out, nil
}

// フィリピンの電源別合計（期間ごと）
func (u *EnergyUsecase) PHTotal(ctx context.Context, p EnergyParams) ([]model.EnergyTotals, error) {
	buckets, err := u.phBuckets(ctx, p)
	if err != nil {
		return nil, err
	}

	out := make([]model.EnergyTotals, 0, len(buckets))
	for _, b := range buckets {
		t := model.EnergyTotals{Period: b.label}
		for _, row := range b.rows {
			t.Biomass += val(row.Biomass)
			t.Coal += val(row.Coal)
			t.Geothermal += val(row.Geothermal)
			t.Hydro += val(row.Hydro)
			t.NaturalGas += val(row.NaturalGas)
			t.Oil += val(row.Oil)
			t.Solar += val(row.Solar)
			t.Wind += val(row.Wind)
			t.Total += val(row.GrandTotal)
		}
		out = append(out, t)
	}
	return out, nil
}

// 再エネ＝バイオマス＋地熱＋水力＋太陽光＋風力、非再エネ＝石炭＋天然ガス＋石油
func (u *EnergyUsecase) PHRenewableVsNon(ctx context.Context, p EnergyParams) ([]model.RenewableSplit, error) {
	buckets, err := u.phBuckets(ctx, p)
	if err != nil {
		return nil, err
	}

	out := make([]model.RenewableSplit, 0, len(buckets))
	for _, b := range buckets {
		s := model.RenewableSplit{Period: b.label}
		for _, row := range b.rows {
			s.RenewableTotal += val(row.Biomass) + val(row.Geothermal) + val(row.Hydro) + val(row.Solar) + val(row.Wind)
			s.NonRenewableTotal += val(row.Coal) + val(row.NaturalGas) + val(row.Oil)
		}
		out = append(out, s)
	}
	return out, nil
}

// 気温と再エネ発電量。電源の指定が無ければ気温だけ返す。
// 発電量が無い年は点を作らない
func (u *EnergyUsecase) GreenVsWeather(ctx context.Context, p EnergyParams) (model.GreenVsWeather, error) {
	start, end, err := parseYearRange(p)
	if err != nil {
		return model.GreenVsWeather{}, err
	}

	temps, err := u.energy.Temperatures(ctx, start, end)
	if err != nil {
		return model.GreenVsWeather{}, internalError(err)
	}

	out := model.GreenVsWeather{
		Years:       make([]int, 0, len(temps)),
		Temperature: make([]*float64, 0, len(temps)),
		Energy:      map[string][]model.Point{},
	}
	for _, t := range temps {
		out.Years = append(out.Years, t.Year)
		out.Temperature = append(out.Temperature, t.AvgMeanTemp)
	}

	names := splitList(p.Sources)
	sources := pickSources(greenSources, names)
	if len(names) == 0 || len(sources) == 0 {
		return out, nil
	}

	rows, err := u.energy.Yearly(ctx, start, end, phCountries)
	if err != nil {
		return model.GreenVsWeather{}, internalError(err)
	}
	for _, row := range rows {
		for _, src := range sources {
			if v := src.value(row); v != nil {
				out.Energy[src.name] = append(out.Energy[src.name], model.Point{X: row.Year, Y: v})
			}
		}
	}
	return out, nil
}

type periodBucket struct {
	start int
	label string
	rows  []model.EnergyYear
}

func (u *EnergyUsecase) phBuckets(ctx context.Context, p EnergyParams) ([]periodBucket, error) {
	start, end, err := parseYearRange(p)
	if err != nil {
		return nil, err
	}
	agg, err := parseAggregation(p.Aggregation)
	if err != nil {
		return nil, err
	}

	rows, err := u.energy.Yearly(ctx, start, end, phCountries)
	if err != nil {
		return nil, internalError(err)
	}
	return bucketByPeriod(rows, agg), nil
}

// bucketByPeriod は年を期間にまとめる。期間の古い順
func bucketByPeriod(rows []model.EnergyYear, agg Aggregation) []periodBucket {
	index := map[int]int{}
	var out []periodBucket
	for _, row := range rows {
		start, label := periodOf(row.Year, agg)
		i, ok := index[start]
		if !ok {
			i = len(out)
			index[start] = i
			out = append(out, periodBucket{start: start, label: label})
		}
		out[i].rows = append(out[i].rows, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func periodOf(year int, agg Aggregation) (int, string) {
	switch agg {
	case AggregateFive:
		s := year - year%5
		return s, fmt.Sprintf("%d-%d", s, s+4)
	case AggregateDecade:
		s := year - year%10
		return s, fmt.Sprintf("%ds", s)
	case AggregateAllTime:
		return 0, "All-Time"
	default:
		return year, strconv.Itoa(year)
	}
}

func parseAggregation(s string) (Aggregation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AggregateYear, nil
	}
	switch a := Aggregation(s); a {
	case AggregateYear, AggregateFive, AggregateDecade, AggregateAllTime:
		return a, nil
	}
	return "", NewHTTPError(http.StatusBadRequest, "invalid aggregation")
}

func parseYearRange(p EnergyParams) (int, int, error) {
	if strings.TrimSpace(p.StartYear) == "" || strings.TrimSpace(p.EndYear) == "" {
		return 0, 0, NewHTTPError(http.StatusBadRequest, "startYear and endYear are required")
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(p.StartYear))
	end, err2 := strconv.Atoi(strings.TrimSpace(p.EndYear))
	if err1 != nil || err2 != nil {
		return 0, 0, NewHTTPError(http.StatusBadRequest, "Invalid year values")
	}
	if start > end {
		return 0, 0, NewHTTPError(http.StatusBadRequest, "startYear must not be after endYear")
	}
	return start, end, nil
}

// 名前の一致するものだけ、定義順で返す。namesが空なら全部
func pickSources(all []energySource, names []string) []energySource {
	if len(names) == 0 {
		return all
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out []energySource
	for _, s := range all {
		if want[s.name] {
			out = append(out, s)
		}
	}
	return out
}

// カンマ区切り。空要素は捨てる
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func val(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
