package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"git.fiblab.net/sim/autoownership/ownership"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	// 配置信息
	propertiesPath  = flag.String("properties", "", "properties file (yaml key: value)")
	projectDir      = flag.String("project-dir", "", "project directory, overrides "+ownership.PROPERTIES_PROJECT_DIRECTORY)
	uecFile         = flag.String("uec", "", "auto ownership workbook relative to the project directory, overrides "+ownership.AO_CONTROL_FILE_TARGET)
	householdsStr   = flag.String("households", "", "input households [format: {fspath}.json, {db}.{col} or postgres://...]")
	outputStr       = flag.String("output", "", "output households, empty means write back to input [same format as -households]")
	mongoURI        = flag.String("mongo_uri", "", "mongo db uri (default $MONGO_URI)")
	postgresURL     = flag.String("postgres", "", "postgres url used when -households is empty (default $DATABASE_URL)")
	workers         = flag.Int("workers", 1, "number of parallel workers")
	seed            = flag.Int64("seed", 0, "base seed of household random streams")
	failurePolicy   = flag.String("failure-policy", "abort", "per household failure policy [abort, skip]")
	debugHH         = flag.String("debug-hh", "", "comma separated household ids to trace")
	aoLogPath       = flag.String("ao-log", "", "file of the auto ownership trace, empty means stdout")
	validateCatalog = flag.Bool("validate-catalog", false, "fail if an alternative's AV and HV counts do not add up")
	logLevel        = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "", "pprof listening address, empty means disable")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(newFormatter())
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env loaded: %v", err)
	}
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}
	if *mongoURI == "" {
		*mongoURI = os.Getenv("MONGO_URI")
	}
	if *postgresURL == "" {
		*postgresURL = os.Getenv("DATABASE_URL")
	}

	props, err := loadProperties(*propertiesPath)
	if err != nil {
		log.Fatalf("failed to load properties: %v", err)
	}
	overrideProperties(props, *projectDir, *uecFile)
	policy, err := ownership.ParseFailurePolicy(*failurePolicy)
	if err != nil {
		log.Fatalf("invalid failure policy: %v", err)
	}
	debugIDs, err := parseHouseholdIDs(*debugHH)
	if err != nil {
		log.Fatalf("invalid debug households: %v", err)
	}

	setup, err := ownership.NewSetup(props, *validateCatalog)
	if err != nil {
		log.Fatalf("failed to set up auto ownership model: %v", err)
	}
	sink, closeSink, err := newTraceSink(*aoLogPath)
	if err != nil {
		log.Fatalf("failed to open trace %s: %v", *aoLogPath, err)
	}
	defer closeSink()

	if *pprofAddr != "" {
		// 启动pprof
		startHTTPDebugger(*pprofAddr)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(setup)
		return
	}

	// 优雅退出
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("stopping...")
		cancel()
		<-signalCh
		os.Exit(1) // 强制结束
	}()

	err = run(ctx, setup, runConfig{
		Input:    *householdsStr,
		Output:   *outputStr,
		MongoURI: *mongoURI,
		Postgres: *postgresURL,
		DebugIDs: debugIDs,
		Options: ownership.RunOptions{
			Workers:  *workers,
			Policy:   policy,
			BaseSeed: *seed,
			Sink:     sink,
		},
	})
	if err != nil {
		log.Fatalf("auto ownership failed: %v", err)
	}
	log.Info("auto ownership closes")
}

func newFormatter() logrus.Formatter {
	return &easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	}
}

// newTraceSink 返回调试家庭的输出，使用独立的logger避免受全局日志级别影响
func newTraceSink(path string) (logrus.FieldLogger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(newFormatter())
	logger.SetLevel(logrus.InfoLevel)
	if path == "" {
		logger.SetOutput(os.Stdout)
		return logger.WithField("module", "ao"), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(f)
	return logger.WithField("module", "ao"), func() { f.Close() }, nil
}
