package ownership

// UpdateHousehold writes the vehicles of the chosen alternative and the
// post-draw random count onto hh.
func UpdateHousehold(hh *Household, catalog *Catalog, choice Choice) error {
	alt, ok := catalog.Get(choice.Alternative)
	if !ok {
		return &InvariantViolation{
			HouseholdID:  hh.ID,
			Chosen:       choice.Alternative,
			Alternatives: catalog.Len(),
		}
	}
	hh.Autos = alt.Autos
	hh.AVs = alt.AVs
	hh.HVs = alt.HVs
	hh.AoRandomCount = choice.DrawCount
	return nil
}
