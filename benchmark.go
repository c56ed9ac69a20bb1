package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"git.fiblab.net/sim/autoownership/ownership"
	"git.fiblab.net/sim/autoownership/uec"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	benchmarkCount      = flag.Int("benchmark.count", 100000, "the synthetic household count for benchmark")
	benchmarkMaxPersons = flag.Int("benchmark.max_persons", 6, "the max persons per synthetic household")
	benchmarkSeed       = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU        = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

// syntheticHouseholds 随机生成家庭，居住地和工作、学校地点取自模型中的小区
func syntheticHouseholds(e *rand.Rand, zones []int32, count, maxPersons int) []*ownership.Household {
	households := make([]*ownership.Household, count)
	for i := range households {
		hh := &ownership.Household{
			ID:     int64(i + 1),
			TAZ:    zones[e.Intn(len(zones))],
			Income: float64(e.Intn(200)) * 1000,
		}
		n := 1 + e.Intn(maxPersons)
		for p := 0; p < n; p++ {
			person := ownership.Person{ID: int32(p + 1), Age: e.Intn(90)}
			switch {
			case person.Age >= 18 && person.Age < 65 && e.Float64() < 0.7:
				person.Worker = true
				person.UsualWorkLocation = zones[e.Intn(len(zones))]
			case person.Age >= ownership.DRIVING_AGE && person.Age < 25:
				person.StudentDriving = true
				person.UsualSchoolLocation = zones[e.Intn(len(zones))]
			case person.Age >= 5 && person.Age < ownership.DRIVING_AGE:
				person.StudentNonDriving = true
				person.UsualSchoolLocation = zones[e.Intn(len(zones))]
			}
			hh.Persons = append(hh.Persons, person)
		}
		households[i] = hh
	}
	return households
}

func checkBenchmarkFlags(count, maxPersons, cpu int) error {
	if count <= 0 {
		return fmt.Errorf("benchmark.count must be positive, got %d", count)
	}
	if maxPersons <= 0 {
		return fmt.Errorf("benchmark.max_persons must be positive, got %d", maxPersons)
	}
	if cpu <= 0 {
		return fmt.Errorf("benchmark.cpu must be positive, got %d", cpu)
	}
	return nil
}

func runBenchmark(setup *ownership.Setup) {
	if err := checkBenchmarkFlags(*benchmarkCount, *benchmarkMaxPersons, *benchmarkCPU); err != nil {
		log.Fatalf("benchmark: %v", err)
	}
	log.Logger.SetLevel(logrus.WarnLevel)
	data, err := setup.Workbook.Sheet(ownership.AO_DATA_SHEET)
	if err != nil {
		log.Fatalf("benchmark: %v", err)
	}
	zones := lo.Map(data.Zones, func(z uec.Zone, _ int) int32 { return z.ID })
	if len(zones) == 0 {
		log.Fatal("benchmark: no zones in the data sheet")
	}
	// 设置随机种子
	e := rand.New(rand.NewSource(*benchmarkSeed))
	households := syntheticHouseholds(e, zones, *benchmarkCount, *benchmarkMaxPersons)

	// 开始benchmark
	runtime.GOMAXPROCS(*benchmarkCPU)
	start := time.Now()
	report, err := ownership.Run(context.Background(), setup, households, ownership.RunOptions{
		Workers:  *benchmarkCPU,
		Policy:   ownership.SkipAndRecord,
		BaseSeed: *benchmarkSeed,
	})
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}
	timeCost := time.Since(start)
	autos := lo.MapValues(
		lo.GroupBy(households, func(hh *ownership.Household) int { return hh.Autos }),
		func(hhs []*ownership.Household, _ int) int { return len(hhs) },
	)
	log.Error(
		"benchmark finished", "\n",
		"count:", *benchmarkCount, "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(*benchmarkCount), "\n",
		"success:", report.Processed, "\n",
		"autos:", autos, "\n",
	)
}
