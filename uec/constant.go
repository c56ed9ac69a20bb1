package uec

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "uec")

var (
	// 错误：工作簿中没有指定编号的sheet
	ErrSheetNotFound = errors.New("sheet not found")
	// 错误：效用系数引用了数据字典中未声明的变量
	ErrUnknownVariable = errors.New("variable not declared in data sheet")
	// 错误：DMU无法提供变量值
	ErrMissingValue = errors.New("variable has no value in decision context")
	// 错误：选择模型中没有任何可用方案
	ErrNoAvailableAlternatives = errors.New("no available alternatives")
	// 错误：sheet中没有方案
	ErrEmptyChoiceSheet = errors.New("choice sheet has no alternatives")
)
