package canon

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"energy-dataset/internal/model"
)

const (
	ProviderSmard        = "smard"
	ProviderEnergyCharts = "energycharts"
)

// mega converts MW/MWh into W/Wh.
const mega = 1_000_000

// quartersPerHour turns a 15-minute MW rate into MWh per interval.
const quartersPerHour = 4

type builder func(loc *time.Location, report Reporter) Func

var providers = map[string]builder{
	ProviderSmard:        Smard,
	ProviderEnergyCharts: EnergyCharts,
}

// New returns the canonicalization function registered for provider.
func New(provider string, loc *time.Location, report Reporter) (Func, error) {
	b, ok := providers[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if loc == nil {
		loc = time.Local
	}
	return b(loc, report), nil
}

// Providers lists the known provider names.
func Providers() []string {
	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Smard reads SMARD exports: production in MWh per interval, installed power
// in MW, load in MWh. Everything is scaled to Wh / W.
func Smard(loc *time.Location, report Reporter) Func {
	return func(row Row) model.Interval {
		rd := reader{provider: ProviderSmard, row: row, report: report}
		iv := model.NewInterval(rd.start(loc))

		iv.Production = model.EnergyMix{
			PV:                 rd.value("Solar"),
			WindOffshore:       rd.value("Wind offshore"),
			WindOnshore:        rd.value("Wind onshore"),
			Biomass:            rd.value("Biomass"),
			Hydro:              rd.value("Hydro"),
			OtherRenewables:    rd.value("Other renewables"),
			Coal:               rd.value("Fossil hard coal"),
			Lignite:            rd.value("Fossil brown coal / lignite"),
			Gas:                rd.value("Fossil gas"),
			OtherConventionals: rd.value("Other conventionals"),
			Nuclear:            rd.value("Nuclear"),
		}.Mul(mega)

		iv.Power = model.EnergyMix{
			PV:                 rd.value("Installed solar"),
			WindOffshore:       rd.value("Installed wind offshore"),
			WindOnshore:        rd.value("Installed wind onshore"),
			Biomass:            rd.value("Installed biomass"),
			Hydro:              rd.value("Installed hydro"),
			OtherRenewables:    rd.value("Installed other renewables"),
			Coal:               rd.value("Installed fossil hard coal"),
			Lignite:            rd.value("Installed fossil brown coal / lignite"),
			Gas:                rd.value("Installed fossil gas"),
			OtherConventionals: rd.value("Installed other conventionals"),
			Nuclear:            rd.value("Installed nuclear"),
		}.Mul(mega)

		iv.Consumption = model.LoadMix{
			Load:     rd.value("Load"),
			Residual: rd.value("Residual load"),
		}.Mul(mega)

		return iv
	}
}

// EnergyCharts reads energy-charts exports: 15-minute average MW values that
// are scaled to W and divided into energy per interval. The files carry no
// installed power, so Power stays zero.
func EnergyCharts(loc *time.Location, report Reporter) Func {
	return func(row Row) model.Interval {
		rd := reader{provider: ProviderEnergyCharts, row: row, report: report}
		iv := model.NewInterval(rd.start(loc))

		iv.Production = model.EnergyMix{
			PV:                 rd.value("Solar"),
			WindOffshore:       rd.value("Wind offshore"),
			WindOnshore:        rd.value("Wind onshore"),
			Biomass:            rd.value("Biomass"),
			Hydro:              rd.sum("Hydro Run-of-River", "Hydro water reservoir"),
			OtherRenewables:    rd.value("Geothermal"),
			Coal:               rd.value("Fossil hard coal"),
			Lignite:            rd.value("Fossil brown coal / lignite"),
			Gas:                rd.value("Fossil gas"),
			OtherConventionals: rd.sum("Fossil oil", "Others", "Waste"),
			Nuclear:            rd.value("Nuclear"),
		}.Mul(mega).Div(quartersPerHour)

		iv.Consumption = model.LoadMix{
			Load:     rd.value("Load"),
			Residual: rd.value("Residual load"),
		}.Mul(mega).Div(quartersPerHour)

		return iv
	}
}
