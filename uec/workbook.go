package uec

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Workbook is a model specification file. Each sheet is addressed by its
// index, in the same way the legacy spreadsheets were addressed by tab.
type Workbook struct {
	Title  string  `yaml:"title"`
	Sheets []Sheet `yaml:"sheets"`

	path string
}

type Sheet struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`

	// data sheet
	Variables []string `yaml:"variables,omitempty"`
	Zones     []Zone   `yaml:"zones,omitempty"`

	// choice sheet
	Alternatives []Alternative `yaml:"alternatives,omitempty"`

	// time sheet
	Mode string `yaml:"mode,omitempty"`
	// 速度（km/h），用于没有给出分钟数的连边
	Speed float64 `yaml:"speed,omitempty"`
	// 起终点的固定附加时间（分钟）
	Terminal float64 `yaml:"terminal,omitempty"`
	// 直线距离超过该值（米）时方式不可用，0表示不限制
	MaxDistance float64 `yaml:"maxDistance,omitempty"`
	Links       []Link  `yaml:"links,omitempty"`
}

type Zone struct {
	ID int32   `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

type Link struct {
	From    int32   `yaml:"from"`
	To      int32   `yaml:"to"`
	Minutes float64 `yaml:"minutes,omitempty"`
	Oneway  bool    `yaml:"oneway,omitempty"`
}

type Alternative struct {
	Name         string             `yaml:"name"`
	Constant     float64            `yaml:"constant"`
	Coefficients map[string]float64 `yaml:"coefficients,omitempty"`
	// 变量值不小于给定下限时方案才可用
	Minimums map[string]float64 `yaml:"minimums,omitempty"`
	Disabled bool               `yaml:"disabled,omitempty"`

	// 结构化定义的车辆数，优先于从名称解析
	Autos *int `yaml:"autos,omitempty"`
	AV    *int `yaml:"av,omitempty"`
	HV    *int `yaml:"hv,omitempty"`
}

// Load reads a workbook from a YAML file.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	wb := &Workbook{}
	if err := yaml.Unmarshal(data, wb); err != nil {
		return nil, fmt.Errorf("parse workbook %s: %w", path, err)
	}
	wb.path = path
	log.Debugf("loaded workbook %q from %s with %d sheets", wb.Title, path, len(wb.Sheets))
	return wb, nil
}

func (wb *Workbook) Path() string {
	return wb.path
}

func (wb *Workbook) Sheet(index int) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Index == index {
			return &wb.Sheets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: index %d in %s", ErrSheetNotFound, index, wb.path)
}

// HasVariable 检查数据字典中是否声明了变量
func (s *Sheet) HasVariable(name string) bool {
	return lo.Contains(s.Variables, name)
}
