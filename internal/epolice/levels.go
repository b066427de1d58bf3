package epolice

import (
	"epolice/pkg/cascade"
)

// Cascade level names, parent to child.
const (
	LevelCountry  = "country"
	LevelState    = "state"
	LevelDistrict = "district"
	LevelCity     = "city"
	LevelSDPO     = "sdpo"
	LevelStation  = "police-station"
)

// Levels wires the six-level chain to its endpoints. The country list rides
// the backend's irregular /states/getcountry path; that quirk stays
// contained here.
func (r *Resources) Levels() []cascade.Level {
	return []cascade.Level{
		{Name: LevelCountry, Load: r.optionLoader(func(string) string {
			return "/states/getcountry"
		})},
		{Name: LevelState, Load: r.optionLoader(func(parentID string) string {
			return "/states/country/" + parentID
		})},
		{Name: LevelDistrict, Load: r.optionLoader(func(parentID string) string {
			return "/districts/state/" + parentID
		})},
		{Name: LevelCity, Load: r.optionLoader(func(parentID string) string {
			return "/cities/district/" + parentID
		})},
		{Name: LevelSDPO, Load: r.optionLoader(func(parentID string) string {
			return "/sdpo/city/" + parentID
		})},
		{Name: LevelStation, Load: r.optionLoader(func(parentID string) string {
			return "/police-stations/by-sdpo/" + parentID
		})},
	}
}

// NewCascade builds a fresh resolver over the full chain. Every form gets
// its own instance; this is also the edit-session resolver factory.
func (r *Resources) NewCascade() *cascade.Resolver {
	return cascade.NewResolver(r.Levels()...)
}
