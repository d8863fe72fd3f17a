package model

// 国×年のエネルギー発電量（GWh）。欠損はnil
type EnergyYear struct {
	Country    string
	Year       int
	Biomass    *float64
	Coal       *float64
	Geothermal *float64
	Hydro      *float64
	NaturalGas *float64
	Oil        *float64
	Solar      *float64
	Wind       *float64
	Nuclear    *float64
	Renewable  *float64
	GrandTotal *float64
}

// 年平均気温
type YearTemperature struct {
	Year        int
	AvgMeanTemp *float64
}

// チャート用の点
type Point struct {
	X int      `json:"x"`
	Y *float64 `json:"y"`
}

type EnergyFilterOptions struct {
	Countries []string `json:"countries"`
	MinYear   int      `json:"minYear"`
	MaxYear   int      `json:"maxYear"`
}

// ph-total の1期間
type EnergyTotals struct {
	Period     string  `json:"period"`
	Biomass    float64 `json:"biomass"`
	Coal       float64 `json:"coal"`
	Geothermal float64 `json:"geothermal"`
	Hydro      float64 `json:"hydro"`
	NaturalGas float64 `json:"natural_gas"`
	Oil        float64 `json:"oil"`
	Solar      float64 `json:"solar"`
	Wind       float64 `json:"wind"`
	Total      float64 `json:"total"`
}

// ph-renewable-vs-non の1期間
type RenewableSplit struct {
	Period            string  `json:"period"`
	RenewableTotal    float64 `json:"renewable_total"`
	NonRenewableTotal float64 `json:"non_renewable_total"`
}

type GreenVsWeather struct {
	Years       []int              `json:"years"`
	Temperature []*float64         `json:"temperature"`
	Energy      map[string][]Point `json:"energy"`
}
