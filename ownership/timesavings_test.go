package ownership

import (
	"errors"
	"testing"

	"git.fiblab.net/sim/autoownership/uec"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTimes 按目的地小区返回固定的出行时间
type fixedTimes struct {
	minutes map[int32]float64
	calls   int
	err     error
}

func (f *fixedTimes) Solve(index uec.IndexValues, _ uec.VariableTable, availability []int) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(availability) > 1 && availability[1] == 0 {
		return []float64{0}, nil
	}
	return []float64{f.minutes[index.DestZone]}, nil
}

func newTimeModels(auto, transit, walk map[int32]float64) TimeModels {
	return TimeModels{
		Auto:    &fixedTimes{minutes: auto},
		Transit: &fixedTimes{minutes: transit},
		Walk:    &fixedTimes{minutes: walk},
	}
}

func TestSavingsRatio(t *testing.T) {
	minWT, savings, ratio := SavingsRatio(TourTimes{Auto: 30, Transit: 40, Walk: 60})
	assert.Equal(t, 40.0, minWT)
	assert.Equal(t, 10.0, savings)
	assert.InDelta(t, 0.0833, ratio, 1e-4)

	// 公交不可用时只和步行比较
	minWT, savings, ratio = SavingsRatio(TourTimes{Auto: 35, Transit: 0, Walk: 30})
	assert.Equal(t, 30.0, minWT)
	assert.Equal(t, -5.0, savings)
	assert.InDelta(t, -0.0417, ratio, 1e-4)

	// 公交更快时与公交比较，自驾更慢得到负值
	minWT, savings, ratio = SavingsRatio(TourTimes{Auto: 20, Transit: 15, Walk: 30})
	assert.Equal(t, 15.0, minWT)
	assert.Equal(t, -5.0, savings)
	assert.InDelta(t, -0.0417, ratio, 1e-4)

	// 公交不可用，节省150分钟超过上限
	minWT, savings, ratio = SavingsRatio(TourTimes{Auto: 0, Transit: 0, Walk: 150})
	assert.Equal(t, 150.0, minWT)
	assert.Equal(t, 150.0, savings)
	assert.Equal(t, 1.0, ratio)

	// 公交比步行慢
	minWT, _, _ = SavingsRatio(TourTimes{Auto: 10, Transit: 50, Walk: 45})
	assert.Equal(t, 45.0, minWT)

	_, _, ratio = SavingsRatio(TourTimes{Auto: 20, Transit: 0, Walk: 200})
	assert.Equal(t, 1.0, ratio)
	_, _, ratio = SavingsRatio(TourTimes{Auto: 0, Transit: 120, Walk: 150})
	assert.Equal(t, 1.0, ratio)

	// 下限不截断
	_, _, ratio = SavingsRatio(TourTimes{Auto: 300, Transit: 0, Walk: 60})
	assert.Equal(t, -2.0, ratio)
}

func TestEstimateSumsEligiblePersons(t *testing.T) {
	times := newTimeModels(
		map[int32]float64{10: 30, 20: 20, 30: 5},
		map[int32]float64{10: 42, 20: 0, 30: 0},
		map[int32]float64{10: 60, 20: 44, 30: 15},
	)
	hh := &Household{ID: 1, TAZ: 1, Persons: []Person{
		{ID: 1, Age: 40, Worker: true, UsualWorkLocation: 10},
		{ID: 2, Age: 38, Worker: true, UsualWorkLocation: 20},
		{ID: 3, Age: 70},
		{ID: 4, Age: 17, StudentDriving: true, UsualSchoolLocation: 30},
	}}
	e := NewTimeSavingsEstimator(times, discardLogger())

	work, err := e.Estimate(hh, PurposeWork)
	require.NoError(t, err)
	// 12/120 + 24/120
	assert.InDelta(t, 0.30, work.Ratio, 1e-12)
	assert.Equal(t, 50.0, work.AutoTime)

	school, err := e.Estimate(hh, PurposeSchoolDriving)
	require.NoError(t, err)
	assert.InDelta(t, 10.0/120, school.Ratio, 1e-12)
	assert.Equal(t, 0.0, school.AutoTime)

	none, err := e.Estimate(hh, PurposeSchoolNonDriving)
	require.NoError(t, err)
	assert.Equal(t, TimeSavings{}, none)
	// 没有符合条件的成员时不查询时间模型
	assert.Equal(t, 3, times.Walk.(*fixedTimes).calls)
}

func TestEstimateError(t *testing.T) {
	boom := errors.New("boom")
	times := newTimeModels(nil, nil, nil)
	times.Transit.(*fixedTimes).err = boom
	hh := &Household{ID: 5, TAZ: 1, Persons: []Person{{Worker: true, UsualWorkLocation: 2}}}

	_, err := NewTimeSavingsEstimator(times, discardLogger()).Estimate(hh, PurposeWork)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "hh 5 person 1 work")
}

func TestEstimateDebugLines(t *testing.T) {
	logger, hook := test.NewNullLogger()
	times := newTimeModels(map[int32]float64{2: 10}, map[int32]float64{2: 20}, map[int32]float64{2: 30})
	hh := &Household{ID: 9, TAZ: 1, Debug: true, Persons: []Person{{Worker: true, UsualWorkLocation: 2}}}

	_, err := NewTimeSavingsEstimator(times, logger).Estimate(hh, PurposeWork)
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, "Debug for hhid=9, personNum=1, purpose=work, destination=2", hook.AllEntries()[0].Message)
	assert.Equal(t, "auto=10, transit=20, walk=30", hook.AllEntries()[1].Message)
}
