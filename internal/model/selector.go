package model

import (
	"fmt"
	"strings"
)

// Category names a sub-record of an Interval.
type Category string

const (
	CategoryProduction  Category = "production"
	CategoryPower       Category = "power"
	CategoryConsumption Category = "consumption"
)

// Field names a single value inside a sub-record.
type Field string

const (
	FieldPV                 Field = "pv"
	FieldWindOffshore       Field = "wind_offshore"
	FieldWindOnshore        Field = "wind_onshore"
	FieldBiomass            Field = "biomass"
	FieldHydro              Field = "hydro"
	FieldOtherRenewables    Field = "other_renewables"
	FieldCoal               Field = "coal"
	FieldLignite            Field = "lignite"
	FieldGas                Field = "gas"
	FieldOtherConventionals Field = "other_conventionals"
	FieldNuclear            Field = "nuclear"

	FieldLoad     Field = "load"
	FieldResidual Field = "residual"
)

// EnergyFields lists the EnergyMix sources in canonical column order.
var EnergyFields = []Field{
	FieldPV,
	FieldWindOffshore,
	FieldWindOnshore,
	FieldBiomass,
	FieldHydro,
	FieldOtherRenewables,
	FieldCoal,
	FieldLignite,
	FieldGas,
	FieldOtherConventionals,
	FieldNuclear,
}

// LoadFields lists the LoadMix fields in canonical column order.
var LoadFields = []Field{FieldLoad, FieldResidual}

// Fields returns the fields valid for the category, or nil for an unknown category.
func (c Category) Fields() []Field {
	switch c {
	case CategoryProduction, CategoryPower:
		return EnergyFields
	case CategoryConsumption:
		return LoadFields
	default:
		return nil
	}
}

// Selector addresses one value of an Interval: category + field.
// Build it with ParseSelector so that invalid paths never reach evaluation.
type Selector struct {
	Category Category `json:"category"`
	Field    Field    `json:"field"`
}

// ParseSelector validates a category/field pair.
func ParseSelector(category, field string) (Selector, error) {
	c := Category(strings.TrimSpace(strings.ToLower(category)))
	fields := c.Fields()
	if fields == nil {
		return Selector{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	f := Field(strings.TrimSpace(strings.ToLower(field)))
	for _, known := range fields {
		if known == f {
			return Selector{Category: c, Field: f}, nil
		}
	}
	return Selector{}, fmt.Errorf("%w: %q in %s", ErrUnknownField, field, c)
}

// Value reads the addressed value from iv. ok is false for a zero or invalid selector.
func (s Selector) Value(iv Interval) (value float64, ok bool) {
	switch s.Category {
	case CategoryProduction:
		return iv.Production.Get(s.Field)
	case CategoryPower:
		return iv.Power.Get(s.Field)
	case CategoryConsumption:
		return iv.Consumption.Get(s.Field)
	default:
		return 0, false
	}
}

func (s Selector) String() string {
	return string(s.Category) + "." + string(s.Field)
}
