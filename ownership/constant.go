package ownership

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "ownership")

const (
	PROPERTIES_PROJECT_DIRECTORY = "Project.Directory"
	AO_CONTROL_FILE_TARGET       = "UecFile.AutoOwnership"

	// 模型说明文件中各sheet的编号
	AO_DATA_SHEET       = 0
	AO_MODEL_SHEET      = 1
	AUTO_MODEL_SHEET    = 2
	TRANSIT_MODEL_SHEET = 3
	WALK_MODEL_SHEET    = 4

	// 节省时间上限（分钟），超过即比例为1
	MAX_TIME_SAVINGS = 120.0

	// 可开车年龄
	DRIVING_AGE = 16

	CHOICE_MODEL_DESCRIPTION = "Household Auto Ownership Choice"
)

// 时间模型只有一个方案，下标从1开始
var timeAvailability = []int{0, 1}
