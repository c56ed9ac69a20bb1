package ownership

import (
	"errors"
	"fmt"
	"strings"

	"git.fiblab.net/sim/autoownership/uec"
)

// Alternative is the vehicle composition of one auto ownership alternative.
type Alternative struct {
	Name  string
	Autos int
	AVs   int
	HVs   int
}

// DecodeAlternativeName reads the vehicle counts encoded in an alternative
// name: the first character is the total number of vehicles and the
// characters preceding "AV" and "HV" are the automated and human-driven
// counts, e.g. "2_CARS_1AV1HV".
func DecodeAlternativeName(name string) (Alternative, error) {
	alt := Alternative{Name: name}
	if name == "" {
		return alt, &DecodeError{Name: name, Reason: "empty name"}
	}
	autos, ok := digit(name[0])
	if !ok {
		return alt, &DecodeError{Name: name, Reason: fmt.Sprintf("total vehicles %q is not a digit", name[0])}
	}
	alt.Autos = autos
	for _, marker := range []struct {
		tag string
		n   *int
	}{{"AV", &alt.AVs}, {"HV", &alt.HVs}} {
		pos := strings.Index(name, marker.tag)
		if pos < 0 {
			continue
		}
		if pos == 0 {
			return alt, &DecodeError{Name: name, Reason: fmt.Sprintf("no count before %s", marker.tag)}
		}
		n, ok := digit(name[pos-1])
		if !ok {
			return alt, &DecodeError{Name: name, Reason: fmt.Sprintf("%s count %q is not a digit", marker.tag, name[pos-1])}
		}
		*marker.n = n
	}
	return alt, nil
}

func digit(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// Catalog holds the vehicle counts of every alternative, in the order of
// the choice model. Slices are parallel and indexed from 0.
type Catalog struct {
	Names               []string
	TotalAutos          []int
	AutomatedVehicles   []int
	HumanDrivenVehicles []int
}

func newCatalog(n int) *Catalog {
	return &Catalog{
		Names:               make([]string, 0, n),
		TotalAutos:          make([]int, 0, n),
		AutomatedVehicles:   make([]int, 0, n),
		HumanDrivenVehicles: make([]int, 0, n),
	}
}

func (c *Catalog) add(alt Alternative) {
	c.Names = append(c.Names, alt.Name)
	c.TotalAutos = append(c.TotalAutos, alt.Autos)
	c.AutomatedVehicles = append(c.AutomatedVehicles, alt.AVs)
	c.HumanDrivenVehicles = append(c.HumanDrivenVehicles, alt.HVs)
}

// NewCatalog decodes the alternative names reported by the choice model.
func NewCatalog(names []string) (*Catalog, error) {
	c := newCatalog(len(names))
	for _, name := range names {
		alt, err := DecodeAlternativeName(name)
		if err != nil {
			return nil, err
		}
		c.add(alt)
	}
	return c, nil
}

// NewCatalogFromDefinitions uses the explicit vehicle counts of a workbook
// alternative when given and decodes the name otherwise.
func NewCatalogFromDefinitions(alternatives []uec.Alternative) (*Catalog, error) {
	c := newCatalog(len(alternatives))
	for _, a := range alternatives {
		if a.Autos == nil {
			alt, err := DecodeAlternativeName(a.Name)
			if err != nil {
				return nil, err
			}
			c.add(alt)
			continue
		}
		alt := Alternative{Name: a.Name, Autos: *a.Autos}
		if a.AV != nil {
			alt.AVs = *a.AV
		}
		if a.HV != nil {
			alt.HVs = *a.HV
		}
		if alt.Autos < 0 || alt.AVs < 0 || alt.HVs < 0 {
			return nil, &DecodeError{Name: a.Name, Reason: "negative vehicle count"}
		}
		c.add(alt)
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.Names)
}

// Get returns the alternative with 1-based index chosen.
func (c *Catalog) Get(chosen int) (Alternative, bool) {
	if chosen < 1 || chosen > len(c.Names) {
		return Alternative{}, false
	}
	i := chosen - 1
	return Alternative{
		Name:  c.Names[i],
		Autos: c.TotalAutos[i],
		AVs:   c.AutomatedVehicles[i],
		HVs:   c.HumanDrivenVehicles[i],
	}, true
}

// Validate reports alternatives that split their vehicles into automated
// and human-driven ones whose sum differs from the total.
func (c *Catalog) Validate() error {
	var errs []error
	for i, name := range c.Names {
		av, hv := c.AutomatedVehicles[i], c.HumanDrivenVehicles[i]
		if av == 0 && hv == 0 {
			continue
		}
		if av+hv != c.TotalAutos[i] {
			errs = append(errs, fmt.Errorf("alternative %s: %d autos but %d AV + %d HV", name, c.TotalAutos[i], av, hv))
		}
	}
	return errors.Join(errs...)
}
