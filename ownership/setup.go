package ownership

import (
	"errors"
	"fmt"

	"git.fiblab.net/sim/autoownership/skim"
	"git.fiblab.net/sim/autoownership/uec"
	"github.com/sirupsen/logrus"
)

// Setup is the shared read-only state built once before any household is
// evaluated.
type Setup struct {
	Workbook *uec.Workbook
	Catalog  *Catalog
	Times    TimeModels
}

// NewSetup locates the auto ownership workbook as project directory plus
// the relative workbook path found in props, then builds the alternative
// catalog and the three time models.
func NewSetup(props map[string]string, validateCatalog bool) (*Setup, error) {
	log.Info("setting up AO choice model.")

	projectDirectory := props[PROPERTIES_PROJECT_DIRECTORY]
	relative, ok := props[AO_CONTROL_FILE_TARGET]
	if !ok || relative == "" {
		return nil, &ConfigurationError{Path: AO_CONTROL_FILE_TARGET, Err: errors.New("property not set")}
	}
	path := projectDirectory + relative

	wb, err := uec.Load(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	choice, err := uec.NewChoiceModelApplication(wb, AO_MODEL_SHEET, AO_DATA_SHEET)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	catalog, err := NewCatalogFromDefinitions(choice.Alternatives())
	if err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		if validateCatalog {
			return nil, &ConfigurationError{Path: path, Err: err}
		}
		log.Warnf("alternative catalog: %v", err)
	}

	times := TimeModels{}
	for _, t := range []struct {
		sheet int
		model *TimeModel
	}{
		{AUTO_MODEL_SHEET, &times.Auto},
		{TRANSIT_MODEL_SHEET, &times.Transit},
		{WALK_MODEL_SHEET, &times.Walk},
	} {
		m, err := skim.New(wb, t.sheet, AO_DATA_SHEET)
		if err != nil {
			return nil, &ConfigurationError{Path: path, Err: err}
		}
		*t.model = m
	}
	log.Infof("AO choice model ready: %d alternatives %v", catalog.Len(), catalog.Names)
	return &Setup{Workbook: wb, Catalog: catalog, Times: times}, nil
}

// NewModel creates an evaluator with its own choice model instance.
func (s *Setup) NewModel(sink logrus.FieldLogger) (*Model, error) {
	choice, err := uec.NewChoiceModelApplication(s.Workbook, AO_MODEL_SHEET, AO_DATA_SHEET)
	if err != nil {
		return nil, &ConfigurationError{Path: s.Workbook.Path(), Err: err}
	}
	if choice.NumberOfAlternatives() != s.Catalog.Len() {
		return nil, fmt.Errorf("choice model has %d alternatives, catalog %d",
			choice.NumberOfAlternatives(), s.Catalog.Len())
	}
	return NewModel(choice, s.Times, s.Catalog, sink), nil
}
