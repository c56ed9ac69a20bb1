package ownership

import (
	"fmt"

	"git.fiblab.net/sim/autoownership/uec"
	"github.com/sirupsen/logrus"
)

// TimeModel answers the travel time of one mode for the origin and
// destination of index. A non-positive time means the mode is unavailable.
type TimeModel interface {
	Solve(index uec.IndexValues, dmu uec.VariableTable, availability []int) ([]float64, error)
}

// TimeModels bundles the three modes compared by the time savings covariates.
type TimeModels struct {
	Auto    TimeModel
	Transit TimeModel
	Walk    TimeModel
}

// TourTimes are the times of the three modes for one tour destination.
type TourTimes struct {
	Auto    float64
	Transit float64
	Walk    float64
}

type Purpose int

const (
	PurposeWork Purpose = iota
	PurposeSchoolDriving
	PurposeSchoolNonDriving
)

func (p Purpose) String() string {
	switch p {
	case PurposeWork:
		return "work"
	case PurposeSchoolDriving:
		return "school (driving)"
	case PurposeSchoolNonDriving:
		return "school (non-driving)"
	}
	return fmt.Sprintf("purpose(%d)", int(p))
}

// destination 返回成员是否属于该出行目的，以及对应的通常目的地
func (p Purpose) destination(person *Person) (int32, bool) {
	switch p {
	case PurposeWork:
		return person.UsualWorkLocation, person.Worker
	case PurposeSchoolDriving:
		return person.UsualSchoolLocation, person.StudentDriving
	case PurposeSchoolNonDriving:
		return person.UsualSchoolLocation, person.StudentNonDriving
	}
	return 0, false
}

// TimeSavings is the aggregate over eligible household members. AutoTime
// is only accumulated for the work purpose.
type TimeSavings struct {
	Ratio    float64
	AutoTime float64
}

// SavingsRatio compares auto with the faster of walk and transit. Transit
// replaces walk only when it is available (positive) and faster. The ratio
// is capped at 1 above and not bounded below.
func SavingsRatio(t TourTimes) (minWalkTransit, autoSavings, ratio float64) {
	minWalkTransit = t.Walk
	if t.Transit > 0 && t.Transit < t.Walk {
		minWalkTransit = t.Transit
	}
	autoSavings = minWalkTransit - t.Auto
	if autoSavings < MAX_TIME_SAVINGS {
		ratio = autoSavings / MAX_TIME_SAVINGS
	} else {
		ratio = 1.0
	}
	return
}

type TimeSavingsEstimator struct {
	times TimeModels
	sink  logrus.FieldLogger
}

func NewTimeSavingsEstimator(times TimeModels, sink logrus.FieldLogger) *TimeSavingsEstimator {
	return &TimeSavingsEstimator{times: times, sink: sink}
}

// TourTimes queries the three time models for one destination.
func (e *TimeSavingsEstimator) TourTimes(hh *Household, dest int32) (TourTimes, error) {
	dmu := &timeDMU{}
	dmu.setDmuIndexValues(hh.ID, hh.TAZ, hh.TAZ, dest, hh.Debug)
	auto, err := solve(e.times.Auto, dmu)
	if err != nil {
		return TourTimes{}, fmt.Errorf("auto time %d->%d: %w", hh.TAZ, dest, err)
	}
	transit, err := solve(e.times.Transit, dmu)
	if err != nil {
		return TourTimes{}, fmt.Errorf("transit time %d->%d: %w", hh.TAZ, dest, err)
	}
	walk, err := solve(e.times.Walk, dmu)
	if err != nil {
		return TourTimes{}, fmt.Errorf("walk time %d->%d: %w", hh.TAZ, dest, err)
	}
	return TourTimes{Auto: auto, Transit: transit, Walk: walk}, nil
}

func solve(m TimeModel, dmu *timeDMU) (float64, error) {
	times, err := m.Solve(dmu.index, dmu, timeAvailability)
	if err != nil {
		return 0, err
	}
	if len(times) == 0 {
		return 0, fmt.Errorf("time model returned no values")
	}
	return times[0], nil
}

// Estimate sums the savings ratio of every household member eligible for
// purpose. Members that are not eligible contribute nothing.
func (e *TimeSavingsEstimator) Estimate(hh *Household, purpose Purpose) (TimeSavings, error) {
	var total TimeSavings
	for i := range hh.Persons {
		person := &hh.Persons[i]
		dest, ok := purpose.destination(person)
		if !ok {
			continue
		}
		times, err := e.TourTimes(hh, dest)
		if err != nil {
			return TimeSavings{}, fmt.Errorf("hh %d person %d %s: %w", hh.ID, i+1, purpose, err)
		}
		minWalkTransit, autoSavings, ratio := SavingsRatio(times)
		if purpose == PurposeWork {
			total.AutoTime += times.Auto
		}
		total.Ratio += ratio

		if hh.Debug {
			e.sink.Infof("Debug for hhid=%d, personNum=%d, purpose=%s, destination=%d", hh.ID, i+1, purpose, dest)
			e.sink.Infof("auto=%v, transit=%v, walk=%v", times.Auto, times.Transit, times.Walk)
			e.sink.Infof("minWalkTransit=%v, autoSavings=%v, autoSavingsRatio=%v, totalAutoSavingsRatio=%v",
				minWalkTransit, autoSavings, ratio, total.Ratio)
		}
	}
	return total, nil
}
