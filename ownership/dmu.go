package ownership

import (
	"git.fiblab.net/sim/autoownership/uec"
)

// 自有车辆模型可引用的变量名
const (
	VAR_WORK_TOUR_AUTO_TIME_SAVINGS         = "workTourAutoTimeSavings"
	VAR_WORK_TOUR_AUTO_TIME                 = "workTourAutoTime"
	VAR_SCHOOL_DRIVE_TOUR_AUTO_TIME_SAVINGS = "schoolDriveTourAutoTimeSavings"
	VAR_SCHOOL_NON_DRIVE_TOUR_TIME_SAVINGS  = "schoolNonDriveTourAutoTimeSavings"
	VAR_HOUSEHOLD_SIZE                      = "householdSize"
	VAR_WORKERS                             = "workers"
	VAR_DRIVING_AGE_PERSONS                 = "drivingAgePersons"
	VAR_INCOME                              = "income"
)

// Variables lists every name AutoOwnershipDMU answers.
var Variables = []string{
	VAR_WORK_TOUR_AUTO_TIME_SAVINGS,
	VAR_WORK_TOUR_AUTO_TIME,
	VAR_SCHOOL_DRIVE_TOUR_AUTO_TIME_SAVINGS,
	VAR_SCHOOL_NON_DRIVE_TOUR_TIME_SAVINGS,
	VAR_HOUSEHOLD_SIZE,
	VAR_WORKERS,
	VAR_DRIVING_AGE_PERSONS,
	VAR_INCOME,
}

// AutoOwnershipDMU is the decision context of one household evaluation.
type AutoOwnershipDMU struct {
	hh    *Household
	index uec.IndexValues

	WorkTourAutoTimeSavings           float64
	WorkTourAutoTime                  float64
	SchoolDriveTourAutoTimeSavings    float64
	SchoolNonDriveTourAutoTimeSavings float64
}

func NewAutoOwnershipDMU(hh *Household) *AutoOwnershipDMU {
	return &AutoOwnershipDMU{hh: hh}
}

func (d *AutoOwnershipDMU) SetDmuIndexValues(hhID int64, zoneID, origTaz, destTaz int32) {
	d.index = uec.IndexValues{
		HHIndex:    hhID,
		ZoneIndex:  zoneID,
		OriginZone: origTaz,
		DestZone:   destTaz,
		Debug:      d.hh != nil && d.hh.Debug,
	}
}

func (d *AutoOwnershipDMU) DmuIndexValues() uec.IndexValues {
	return d.index
}

func (d *AutoOwnershipDMU) ValueForName(name string) (float64, bool) {
	switch name {
	case VAR_WORK_TOUR_AUTO_TIME_SAVINGS:
		return d.WorkTourAutoTimeSavings, true
	case VAR_WORK_TOUR_AUTO_TIME:
		return d.WorkTourAutoTime, true
	case VAR_SCHOOL_DRIVE_TOUR_AUTO_TIME_SAVINGS:
		return d.SchoolDriveTourAutoTimeSavings, true
	case VAR_SCHOOL_NON_DRIVE_TOUR_TIME_SAVINGS:
		return d.SchoolNonDriveTourAutoTimeSavings, true
	}
	if d.hh == nil {
		return 0, false
	}
	switch name {
	case VAR_HOUSEHOLD_SIZE:
		return float64(len(d.hh.Persons)), true
	case VAR_WORKERS:
		return float64(d.hh.Workers()), true
	case VAR_DRIVING_AGE_PERSONS:
		return float64(d.hh.DrivingAgePersons()), true
	case VAR_INCOME:
		return d.hh.Income, true
	}
	return 0, false
}

// timeDMU 是查询出行时间使用的上下文，时间模型不引用变量
type timeDMU struct {
	index uec.IndexValues
}

func (d *timeDMU) setDmuIndexValues(hhID int64, zoneID, origTaz, destTaz int32, debug bool) {
	d.index = uec.IndexValues{
		HHIndex:    hhID,
		ZoneIndex:  zoneID,
		OriginZone: origTaz,
		DestZone:   destTaz,
		Debug:      debug,
	}
}

func (d *timeDMU) ValueForName(string) (float64, bool) {
	return 0, false
}
