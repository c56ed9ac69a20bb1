package skim

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "skim")

var (
	// 错误：小区不存在
	ErrZoneNotFound = errors.New("zone not found")
	// 错误：连边既没有给出分钟数，sheet也没有给出速度
	ErrNoSpeed = errors.New("time sheet has neither speed nor link minutes")
	// 错误：数据sheet中没有小区
	ErrNoZones = errors.New("data sheet has no zones")
)
