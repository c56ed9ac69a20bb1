package uec

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type term struct {
	name string
	coef float64
}

// ChoiceModelApplication evaluates a multinomial logit model defined on a
// choice sheet. It keeps the results of the last evaluation, so one
// instance must not be shared between goroutines.
type ChoiceModelApplication struct {
	sheet *Sheet
	names []string
	// 每个方案的效用项，按变量名排序以保证求和顺序固定
	terms [][]term

	utilities     []float64
	probabilities []float64
	available     []bool
	availCount    int

	// 最近一次计算的输入，用于输出UEC明细
	dmu   VariableTable
	index IndexValues
}

func NewChoiceModelApplication(wb *Workbook, modelSheet, dataSheet int) (*ChoiceModelApplication, error) {
	model, err := wb.Sheet(modelSheet)
	if err != nil {
		return nil, err
	}
	data, err := wb.Sheet(dataSheet)
	if err != nil {
		return nil, err
	}
	if len(model.Alternatives) == 0 {
		return nil, fmt.Errorf("%w: sheet %d in %s", ErrEmptyChoiceSheet, modelSheet, wb.path)
	}
	// 所有系数和可用性条件引用的变量都必须在数据字典中声明
	for _, alt := range model.Alternatives {
		for _, name := range append(lo.Keys(alt.Coefficients), lo.Keys(alt.Minimums)...) {
			if !data.HasVariable(name) {
				return nil, fmt.Errorf("%w: %q used by alternative %s", ErrUnknownVariable, name, alt.Name)
			}
		}
	}
	n := len(model.Alternatives)
	return &ChoiceModelApplication{
		sheet: model,
		names: lo.Map(model.Alternatives, func(alt Alternative, _ int) string {
			return alt.Name
		}),
		terms: lo.Map(model.Alternatives, func(alt Alternative, _ int) []term {
			names := lo.Keys(alt.Coefficients)
			sort.Strings(names)
			return lo.Map(names, func(name string, _ int) term {
				return term{name: name, coef: alt.Coefficients[name]}
			})
		}),
		utilities:     make([]float64, n),
		probabilities: make([]float64, n),
		available:     make([]bool, n),
	}, nil
}

func (m *ChoiceModelApplication) AlternativeNames() []string {
	return m.names
}

func (m *ChoiceModelApplication) Alternatives() []Alternative {
	return m.sheet.Alternatives
}

func (m *ChoiceModelApplication) NumberOfAlternatives() int {
	return len(m.names)
}

func (m *ChoiceModelApplication) Utilities() []float64 {
	return m.utilities
}

func (m *ChoiceModelApplication) Probabilities() []float64 {
	return m.probabilities
}

func (m *ChoiceModelApplication) AvailabilityCount() int {
	return m.availCount
}

// ComputeUtilities 计算各方案效用与logit概率
func (m *ChoiceModelApplication) ComputeUtilities(dmu VariableTable, index IndexValues) error {
	m.dmu, m.index = dmu, index
	m.availCount = 0
	maxUtility := math.Inf(-1)
	for k, alt := range m.sheet.Alternatives {
		available, err := m.isAvailable(alt, dmu)
		if err != nil {
			return err
		}
		m.available[k] = available
		if !available {
			m.utilities[k] = math.Inf(-1)
			continue
		}
		u := alt.Constant
		for _, t := range m.terms[k] {
			v, ok := dmu.ValueForName(t.name)
			if !ok {
				return fmt.Errorf("%w: %q for alternative %s", ErrMissingValue, t.name, alt.Name)
			}
			u += t.coef * v
		}
		m.utilities[k] = u
		m.availCount++
		maxUtility = math.Max(maxUtility, u)
	}
	// 减去最大效用避免exp溢出
	sum := 0.0
	for k := range m.utilities {
		if !m.available[k] {
			m.probabilities[k] = 0
			continue
		}
		m.probabilities[k] = math.Exp(m.utilities[k] - maxUtility)
		sum += m.probabilities[k]
	}
	if sum > 0 {
		for k := range m.probabilities {
			m.probabilities[k] /= sum
		}
	}
	return nil
}

func (m *ChoiceModelApplication) isAvailable(alt Alternative, dmu VariableTable) (bool, error) {
	if alt.Disabled {
		return false, nil
	}
	for name, lower := range alt.Minimums {
		v, ok := dmu.ValueForName(name)
		if !ok {
			return false, fmt.Errorf("%w: %q for alternative %s", ErrMissingValue, name, alt.Name)
		}
		if v < lower {
			return false, nil
		}
	}
	return true, nil
}

// ChoiceResult 按方案顺序累加概率，返回第一个累积概率超过rn的方案（从1开始编号）
func (m *ChoiceModelApplication) ChoiceResult(rn float64) (int, error) {
	if m.availCount == 0 {
		return 0, ErrNoAvailableAlternatives
	}
	cumProb := 0.0
	last := 0
	for k, p := range m.probabilities {
		if p <= 0 {
			continue
		}
		cumProb += p
		last = k + 1
		if rn < cumProb {
			return k + 1, nil
		}
	}
	// 舍入误差导致累积概率略小于1
	return last, nil
}

// LogAlternativesInfo writes the availability, utility and probability of
// every alternative.
func (m *ChoiceModelApplication) LogAlternativesInfo(sink logrus.FieldLogger, choiceModelDescription, decisionMakerLabel string) {
	sink.Infof("%s Alternatives Info for %s", choiceModelDescription, decisionMakerLabel)
	sink.Infof("%-6s  %-20s  %-9s  %18s  %18s", "alt", "name", "available", "utility", "probability")
	for k, name := range m.names {
		sink.Infof("%-6d  %-20s  %-9t  %18.6e  %18.6e", k+1, name, m.available[k], m.utilities[k], m.probabilities[k])
	}
	sink.Info("")
}

func (m *ChoiceModelApplication) LogSelectionInfo(sink logrus.FieldLogger, choiceModelDescription, decisionMakerLabel string, rn float64, chosen int) {
	name := "none"
	if chosen >= 1 && chosen <= len(m.names) {
		name = m.names[chosen-1]
	}
	sink.Infof("%s Selection Info for %s: rn=%.8f, chosen alt=%d (%s)", choiceModelDescription, decisionMakerLabel, rn, chosen, name)
}

// LogUECResults writes each coefficient, its variable value and the term
// contributed to the utility, in variable name order.
func (m *ChoiceModelApplication) LogUECResults(sink logrus.FieldLogger, header string) {
	sink.Infof("UEC results for %s (origin=%d, dest=%d)", header, m.index.OriginZone, m.index.DestZone)
	if m.dmu == nil {
		return
	}
	for k, alt := range m.sheet.Alternatives {
		sink.Infof("  %s: constant=%.6f", alt.Name, alt.Constant)
		for _, t := range m.terms[k] {
			v, _ := m.dmu.ValueForName(t.name)
			sink.Infof("    %-40s coef=%12.6f value=%12.6f term=%12.6f", t.name, t.coef, v, t.coef*v)
		}
		sink.Infof("  %s: utility=%.6e", alt.Name, m.utilities[k])
	}
}
