package model

// EnergyMix holds one value per generation source for a single interval.
// Units depend on where the mix sits inside an Interval:
// - Production: Wh generated during the interval
// - Power: W of installed capacity
//
// The zero value is a valid mix with every source at 0.
type EnergyMix struct {
	PV                 float64 `json:"pv" yaml:"pv"`
	WindOffshore       float64 `json:"wind_offshore" yaml:"wind_offshore"`
	WindOnshore        float64 `json:"wind_onshore" yaml:"wind_onshore"`
	Biomass            float64 `json:"biomass" yaml:"biomass"`
	Hydro              float64 `json:"hydro" yaml:"hydro"`
	OtherRenewables    float64 `json:"other_renewables" yaml:"other_renewables"`
	Coal               float64 `json:"coal" yaml:"coal"`
	Lignite            float64 `json:"lignite" yaml:"lignite"`
	Gas                float64 `json:"gas" yaml:"gas"`
	OtherConventionals float64 `json:"other_conventionals" yaml:"other_conventionals"`
	Nuclear            float64 `json:"nuclear" yaml:"nuclear"`
}

// TotalRenewables sums pv, wind (offshore + onshore), biomass, hydro and other renewables.
func (m EnergyMix) TotalRenewables() float64 {
	return m.PV + m.WindOffshore + m.WindOnshore + m.Biomass + m.Hydro + m.OtherRenewables
}

// TotalFossils sums coal, lignite, gas and other conventionals.
// Nuclear is counted in neither TotalFossils nor TotalRenewables.
func (m EnergyMix) TotalFossils() float64 {
	return m.Coal + m.Lignite + m.Gas + m.OtherConventionals
}

func (m EnergyMix) Add(v float64) EnergyMix { return m.Scale(OpAdd, v) }
func (m EnergyMix) Sub(v float64) EnergyMix { return m.Scale(OpSub, v) }
func (m EnergyMix) Mul(v float64) EnergyMix { return m.Scale(OpMul, v) }
func (m EnergyMix) Div(v float64) EnergyMix { return m.Scale(OpDiv, v) }

// Scale applies op with operand v to every source and returns the new mix.
// The receiver is left untouched.
func (m EnergyMix) Scale(op Op, v float64) EnergyMix {
	return m.scaleFields(func(x float64) float64 { return op.apply(x, v) })
}

func (m EnergyMix) scaleFields(f func(float64) float64) EnergyMix {
	return EnergyMix{
		PV:                 f(m.PV),
		WindOffshore:       f(m.WindOffshore),
		WindOnshore:        f(m.WindOnshore),
		Biomass:            f(m.Biomass),
		Hydro:              f(m.Hydro),
		OtherRenewables:    f(m.OtherRenewables),
		Coal:               f(m.Coal),
		Lignite:            f(m.Lignite),
		Gas:                f(m.Gas),
		OtherConventionals: f(m.OtherConventionals),
		Nuclear:            f(m.Nuclear),
	}
}

// Get returns the value stored for field. ok is false when field is not an energy source.
func (m EnergyMix) Get(field Field) (value float64, ok bool) {
	switch field {
	case FieldPV:
		return m.PV, true
	case FieldWindOffshore:
		return m.WindOffshore, true
	case FieldWindOnshore:
		return m.WindOnshore, true
	case FieldBiomass:
		return m.Biomass, true
	case FieldHydro:
		return m.Hydro, true
	case FieldOtherRenewables:
		return m.OtherRenewables, true
	case FieldCoal:
		return m.Coal, true
	case FieldLignite:
		return m.Lignite, true
	case FieldGas:
		return m.Gas, true
	case FieldOtherConventionals:
		return m.OtherConventionals, true
	case FieldNuclear:
		return m.Nuclear, true
	default:
		return 0, false
	}
}

// Values returns the sources in EnergyFields order.
func (m EnergyMix) Values() []float64 {
	out := make([]float64, 0, len(EnergyFields))
	for _, f := range EnergyFields {
		v, _ := m.Get(f)
		out = append(out, v)
	}
	return out
}

// LoadMix is the consumption side of an interval.
// Residual is Load minus renewable production.
type LoadMix struct {
	Load     float64 `json:"load" yaml:"load"`
	Residual float64 `json:"residual" yaml:"residual"`
}

func (m LoadMix) Add(v float64) LoadMix { return m.Scale(OpAdd, v) }
func (m LoadMix) Sub(v float64) LoadMix { return m.Scale(OpSub, v) }
func (m LoadMix) Mul(v float64) LoadMix { return m.Scale(OpMul, v) }
func (m LoadMix) Div(v float64) LoadMix { return m.Scale(OpDiv, v) }

// Scale applies op with operand v to load and residual.
func (m LoadMix) Scale(op Op, v float64) LoadMix {
	return LoadMix{
		Load:     op.apply(m.Load, v),
		Residual: op.apply(m.Residual, v),
	}
}

// Get returns the value stored for field. ok is false for anything but load/residual.
func (m LoadMix) Get(field Field) (value float64, ok bool) {
	switch field {
	case FieldLoad:
		return m.Load, true
	case FieldResidual:
		return m.Residual, true
	default:
		return 0, false
	}
}
