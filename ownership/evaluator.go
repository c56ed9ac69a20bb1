package ownership

import (
	"errors"
	"fmt"
	"io"

	"git.fiblab.net/sim/autoownership/uec"
	"github.com/sirupsen/logrus"
)

// ChoiceModel is the utility engine the evaluator drives. Implementations
// keep per-evaluation state and are used by one goroutine at a time.
type ChoiceModel interface {
	ComputeUtilities(dmu uec.VariableTable, index uec.IndexValues) error
	Utilities() []float64
	Probabilities() []float64
	AvailabilityCount() int
	// ChoiceResult returns the 1-based alternative selected by rn.
	ChoiceResult(rn float64) (int, error)
	AlternativeNames() []string
	NumberOfAlternatives() int

	LogAlternativesInfo(sink logrus.FieldLogger, choiceModelDescription, decisionMakerLabel string)
	LogSelectionInfo(sink logrus.FieldLogger, choiceModelDescription, decisionMakerLabel string, rn float64, chosen int)
	LogUECResults(sink logrus.FieldLogger, header string)
}

// Choice is the outcome of one household evaluation.
type Choice struct {
	// 1-based
	Alternative  int
	RandomNumber float64
	// 抽取随机数之前流的计数
	RandomCount int
	// 抽取之后流的计数，写回家庭
	DrawCount  int
	Covariates Covariates
}

type Covariates struct {
	WorkTourAutoTimeSavings           float64
	WorkTourAutoTime                  float64
	SchoolDriveTourAutoTimeSavings    float64
	SchoolNonDriveTourAutoTimeSavings float64
}

// Model evaluates the auto ownership choice of households. A Model owns a
// ChoiceModel instance and must not be shared between goroutines; the
// catalog and time models may be.
type Model struct {
	choice    ChoiceModel
	estimator *TimeSavingsEstimator
	catalog   *Catalog
	// 调试家庭的诊断输出
	sink logrus.FieldLogger
}

func NewModel(choice ChoiceModel, times TimeModels, catalog *Catalog, sink logrus.FieldLogger) *Model {
	if sink == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		sink = l
	}
	return &Model{
		choice:    choice,
		estimator: NewTimeSavingsEstimator(times, sink),
		catalog:   catalog,
		sink:      sink,
	}
}

func (m *Model) Catalog() *Catalog {
	return m.catalog
}

// Apply chooses an alternative for hh and writes its vehicles back.
func (m *Model) Apply(hh *Household, stream *Stream) (Choice, error) {
	if hh.Debug {
		hh.logObject(fmt.Sprintf("Pre AO Household %d Object", hh.ID), m.sink)
	}
	choice, err := m.Choose(hh, stream)
	if err != nil {
		return choice, err
	}
	if err := UpdateHousehold(hh, m.catalog, choice); err != nil {
		return choice, err
	}
	return choice, nil
}

// Covariates computes the time savings covariates of hh.
func (m *Model) Covariates(hh *Household) (Covariates, error) {
	work, err := m.estimator.Estimate(hh, PurposeWork)
	if err != nil {
		return Covariates{}, err
	}
	schoolDrive, err := m.estimator.Estimate(hh, PurposeSchoolDriving)
	if err != nil {
		return Covariates{}, err
	}
	schoolNonDrive, err := m.estimator.Estimate(hh, PurposeSchoolNonDriving)
	if err != nil {
		return Covariates{}, err
	}
	return Covariates{
		WorkTourAutoTimeSavings:           work.Ratio,
		WorkTourAutoTime:                  work.AutoTime,
		SchoolDriveTourAutoTimeSavings:    schoolDrive.Ratio,
		SchoolNonDriveTourAutoTimeSavings: schoolNonDrive.Ratio,
	}, nil
}

// Choose evaluates the choice model for hh and samples one alternative
// with a single draw from stream.
func (m *Model) Choose(hh *Household, stream *Stream) (Choice, error) {
	dmu := NewAutoOwnershipDMU(hh)
	dmu.SetDmuIndexValues(hh.ID, hh.TAZ, hh.TAZ, 0)

	// 从家庭到工作地、学校的出行时间节省
	cov, err := m.Covariates(hh)
	if err != nil {
		return Choice{}, err
	}
	dmu.WorkTourAutoTimeSavings = cov.WorkTourAutoTimeSavings
	dmu.WorkTourAutoTime = cov.WorkTourAutoTime
	dmu.SchoolDriveTourAutoTimeSavings = cov.SchoolDriveTourAutoTimeSavings
	dmu.SchoolNonDriveTourAutoTimeSavings = cov.SchoolNonDriveTourAutoTimeSavings

	if err := m.choice.ComputeUtilities(dmu, dmu.DmuIndexValues()); err != nil {
		return Choice{}, fmt.Errorf("HHID=%d: compute utilities: %w", hh.ID, err)
	}

	randomCount := stream.Count()
	rn := stream.Float64()
	choice := Choice{RandomNumber: rn, RandomCount: randomCount, DrawCount: stream.Count(), Covariates: cov}

	if hh.Debug {
		m.logAlternativeTable()
	}

	if m.choice.AvailabilityCount() <= 0 {
		log.Errorf("HHID=%d: no available auto ownership alternatives to choose from in choice model", hh.ID)
		return choice, &NoAvailableAlternativeError{HouseholdID: hh.ID}
	}
	chosen, err := m.choice.ChoiceResult(rn)
	if err != nil {
		if errors.Is(err, uec.ErrNoAvailableAlternatives) {
			return choice, &NoAvailableAlternativeError{HouseholdID: hh.ID}
		}
		return choice, fmt.Errorf("HHID=%d: choice result: %w", hh.ID, err)
	}
	choice.Alternative = chosen

	if hh.Debug {
		label := fmt.Sprintf("HH_%d", hh.ID)
		m.sink.Info(" ")
		m.sink.Infof("Choice: %d, with rn=%.8f, randomCount=%d", chosen, rn, randomCount)
		m.sink.Info("++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++")
		m.sink.Info("")
		m.sink.Info("")
		m.choice.LogAlternativesInfo(m.sink, CHOICE_MODEL_DESCRIPTION, label)
		m.choice.LogSelectionInfo(m.sink, CHOICE_MODEL_DESCRIPTION, label, rn, chosen)
		m.choice.LogUECResults(m.sink, fmt.Sprintf("%s, %s", CHOICE_MODEL_DESCRIPTION, label))
	}
	return choice, nil
}

func (m *Model) logAlternativeTable() {
	names := m.choice.AlternativeNames()
	utilities := m.choice.Utilities()
	probabilities := m.choice.Probabilities()

	m.sink.Info("Alternative                    Utility       Probability           CumProb")
	m.sink.Info("--------------------   ---------------      ------------      ------------")
	cumProb := 0.0
	for k := 0; k < m.choice.NumberOfAlternatives(); k++ {
		cumProb += probabilities[k]
		m.sink.Infof("%-20s%18.6e%18.6e%18.6e", names[k], utilities[k], probabilities[k], cumProb)
	}
}
