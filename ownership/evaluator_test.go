package ownership

import (
	"errors"
	"io"
	"testing"

	"git.fiblab.net/sim/autoownership/uec"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeChoice 返回固定概率的选择模型
type fakeChoice struct {
	names         []string
	probabilities []float64
	// 非0时ChoiceResult直接返回该值
	forced int

	dmu         uec.VariableTable
	index       uec.IndexValues
	resultCalls int
}

func (f *fakeChoice) ComputeUtilities(dmu uec.VariableTable, index uec.IndexValues) error {
	f.dmu, f.index = dmu, index
	return nil
}

func (f *fakeChoice) Utilities() []float64 {
	return make([]float64, len(f.names))
}

func (f *fakeChoice) Probabilities() []float64 {
	return f.probabilities
}

func (f *fakeChoice) AvailabilityCount() int {
	return lo.CountBy(f.probabilities, func(p float64) bool { return p > 0 })
}

func (f *fakeChoice) ChoiceResult(rn float64) (int, error) {
	f.resultCalls++
	if f.forced != 0 {
		return f.forced, nil
	}
	cum := 0.0
	for k, p := range f.probabilities {
		cum += p
		if rn < cum {
			return k + 1, nil
		}
	}
	return len(f.probabilities), nil
}

func (f *fakeChoice) AlternativeNames() []string {
	return f.names
}

func (f *fakeChoice) NumberOfAlternatives() int {
	return len(f.names)
}

func (f *fakeChoice) LogAlternativesInfo(sink logrus.FieldLogger, desc, label string) {
	sink.Infof("alternatives %s %s", desc, label)
}

func (f *fakeChoice) LogSelectionInfo(sink logrus.FieldLogger, desc, label string, rn float64, chosen int) {
	sink.Infof("selection %s %s %d", desc, label, chosen)
}

func (f *fakeChoice) LogUECResults(sink logrus.FieldLogger, header string) {
	sink.Infof("uec %s", header)
}

func newFakeModel(t *testing.T, choice *fakeChoice, sink logrus.FieldLogger) *Model {
	catalog, err := NewCatalog(choice.names)
	require.NoError(t, err)
	times := newTimeModels(
		map[int32]float64{2: 10},
		map[int32]float64{2: 34},
		map[int32]float64{2: 40},
	)
	return NewModel(choice, times, catalog, sink)
}

func threeCars() *fakeChoice {
	return &fakeChoice{
		names:         []string{"0_CARS", "1_CARS", "2_CARS_1AV1HV"},
		probabilities: []float64{0.2, 0.3, 0.5},
	}
}

func TestApplyUpdatesHousehold(t *testing.T) {
	choice := threeCars()
	m := newFakeModel(t, choice, nil)
	hh := &Household{ID: 1, TAZ: 1, Income: 50000, Persons: []Person{
		{Age: 40, Worker: true, UsualWorkLocation: 2},
		{Age: 10},
	}}

	// 种子42的第一个随机数为0.7276，落在第3个方案
	c, err := m.Apply(hh, NewStream(42))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Alternative)
	assert.Equal(t, 0, c.RandomCount)
	assert.Equal(t, 1, c.DrawCount)
	assert.Equal(t, 1, choice.resultCalls)
	assert.Equal(t, 2, hh.Autos)
	assert.Equal(t, 1, hh.AVs)
	assert.Equal(t, 1, hh.HVs)
	assert.Equal(t, 1, hh.AoRandomCount)

	// 工作时间节省 (34-10)/120
	assert.InDelta(t, 0.2, c.Covariates.WorkTourAutoTimeSavings, 1e-12)
	assert.Equal(t, 10.0, c.Covariates.WorkTourAutoTime)
	v, ok := choice.dmu.ValueForName(VAR_WORK_TOUR_AUTO_TIME_SAVINGS)
	require.True(t, ok)
	assert.InDelta(t, 0.2, v, 1e-12)
	v, _ = choice.dmu.ValueForName(VAR_DRIVING_AGE_PERSONS)
	assert.Equal(t, 1.0, v)
	v, _ = choice.dmu.ValueForName(VAR_INCOME)
	assert.Equal(t, 50000.0, v)
	assert.Equal(t, uec.IndexValues{HHIndex: 1, ZoneIndex: 1, OriginZone: 1, DestZone: 0}, choice.index)
}

func TestApplyUsesStreamPosition(t *testing.T) {
	m := newFakeModel(t, threeCars(), nil)
	hh := &Household{ID: 2, TAZ: 1, Seed: 42, RandomCount: 2}

	// 跳过两个数后为0.3087，落在第2个方案
	c, err := m.Apply(hh, hh.NewStream(0))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Alternative)
	assert.Equal(t, 2, c.RandomCount)
	assert.Equal(t, 1, hh.Autos)
	assert.Equal(t, 0, hh.AVs)
	assert.Equal(t, 3, hh.AoRandomCount)
}

func TestApplyIsDeterministic(t *testing.T) {
	m := newFakeModel(t, threeCars(), nil)
	results := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		hh := &Household{ID: 11, TAZ: 1, Seed: 1001}
		c, err := m.Apply(hh, hh.NewStream(0))
		require.NoError(t, err)
		results = append(results, c.Alternative)
	}
	assert.Len(t, lo.Uniq(results), 1)
}

func TestNoAvailableAlternative(t *testing.T) {
	choice := &fakeChoice{names: []string{"0_CARS", "1_CARS"}, probabilities: []float64{0, 0}}
	m := newFakeModel(t, choice, nil)
	hh := &Household{ID: 3, TAZ: 1, Autos: 7}

	_, err := m.Apply(hh, NewStream(1))
	var noAlt *NoAvailableAlternativeError
	require.True(t, errors.As(err, &noAlt))
	assert.Equal(t, int64(3), noAlt.HouseholdID)
	assert.Equal(t, 0, choice.resultCalls)
	// 家庭保持不变
	assert.Equal(t, 7, hh.Autos)
	assert.Equal(t, 0, hh.AoRandomCount)
}

func TestInvariantViolation(t *testing.T) {
	choice := threeCars()
	choice.forced = 4
	m := newFakeModel(t, choice, nil)
	hh := &Household{ID: 4, TAZ: 1}

	_, err := m.Apply(hh, NewStream(1))
	var violation *InvariantViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, 4, violation.Chosen)
	assert.Equal(t, 3, violation.Alternatives)
	assert.Equal(t, 0, hh.Autos)
}

func TestTimeModelFailure(t *testing.T) {
	m := newFakeModel(t, threeCars(), nil)
	boom := errors.New("boom")
	m.estimator.times.Auto.(*fixedTimes).err = boom
	hh := &Household{ID: 6, TAZ: 1, Persons: []Person{{Worker: true, UsualWorkLocation: 2}}}

	_, err := m.Apply(hh, NewStream(1))
	assert.ErrorIs(t, err, boom)
}

func TestDebugHouseholdOutput(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := newFakeModel(t, threeCars(), logger)
	hh := &Household{ID: 1, TAZ: 1, Debug: true, Persons: []Person{{Age: 30}}}

	_, err := m.Apply(hh, NewStream(42))
	require.NoError(t, err)
	messages := lo.Map(hook.AllEntries(), func(e *logrus.Entry, _ int) string { return e.Message })
	assert.Equal(t, "Pre AO Household 1 Object", messages[0])
	assert.Contains(t, messages, "Choice: 3, with rn=0.72756368, randomCount=0")
	assert.Contains(t, messages, "alternatives Household Auto Ownership Choice HH_1")
	assert.Contains(t, messages, "selection Household Auto Ownership Choice HH_1 3")
	assert.Contains(t, messages, "uec Household Auto Ownership Choice, HH_1")
	assert.Contains(t, messages, "Alternative                    Utility       Probability           CumProb")

	// 非调试家庭不输出
	hook.Reset()
	_, err = m.Apply(&Household{ID: 2, TAZ: 1}, NewStream(42))
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())
}
