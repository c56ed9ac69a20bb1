package ownership

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type Person struct {
	ID                  int32 `json:"id" bson:"id"`
	Age                 int   `json:"age" bson:"age"`
	Worker              bool  `json:"worker" bson:"worker"`
	StudentDriving      bool  `json:"student_driving" bson:"student_driving"`
	StudentNonDriving   bool  `json:"student_non_driving" bson:"student_non_driving"`
	UsualWorkLocation   int32 `json:"usual_work_location" bson:"usual_work_location"`
	UsualSchoolLocation int32 `json:"usual_school_location" bson:"usual_school_location"`
}

type Household struct {
	ID      int64    `json:"id" bson:"id"`
	TAZ     int32    `json:"taz" bson:"taz"`
	Income  float64  `json:"income" bson:"income"`
	Persons []Person `json:"persons" bson:"persons"`
	// 随机数流的种子，0表示由全局种子和ID生成
	Seed int64 `json:"seed,omitempty" bson:"seed,omitempty"`
	// 进入本模型之前已经使用的随机数个数
	RandomCount int  `json:"random_count" bson:"random_count"`
	Debug       bool `json:"debug,omitempty" bson:"debug,omitempty"`

	// 模型结果
	Autos         int `json:"autos" bson:"autos"`
	AVs           int `json:"autonomous_vehicles" bson:"autonomous_vehicles"`
	HVs           int `json:"human_vehicles" bson:"human_vehicles"`
	AoRandomCount int `json:"ao_random_count" bson:"ao_random_count"`
}

func (hh *Household) Workers() int {
	return lo.CountBy(hh.Persons, func(p Person) bool { return p.Worker })
}

func (hh *Household) DrivingAgePersons() int {
	return lo.CountBy(hh.Persons, func(p Person) bool { return p.Age >= DRIVING_AGE })
}

// NewStream returns the household's random stream positioned after the
// draws already consumed upstream.
func (hh *Household) NewStream(baseSeed int64) *Stream {
	seed := hh.Seed
	if seed == 0 {
		seed = baseSeed + hh.ID
	}
	s := NewStream(seed)
	s.Skip(hh.RandomCount)
	return s
}

func (hh *Household) logObject(title string, sink logrus.FieldLogger) {
	sink.Infof("%s", title)
	sink.Infof("  hhId=%d, hhTaz=%d, income=%.2f, persons=%d, seed=%d, randomCount=%d",
		hh.ID, hh.TAZ, hh.Income, len(hh.Persons), hh.Seed, hh.RandomCount)
	for i, p := range hh.Persons {
		sink.Infof("  person %d: id=%d, age=%d, worker=%t, studentDriving=%t, studentNonDriving=%t, work=%d, school=%d",
			i+1, p.ID, p.Age, p.Worker, p.StudentDriving, p.StudentNonDriving, p.UsualWorkLocation, p.UsualSchoolLocation)
	}
}
