package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   string

	ScenarioDir string
	TickMillis  int64

	LiveScenario     string
	LiveService      string
	LiveTickSchedule string

	BenchmarkScenarios []string
	BenchmarkService   string
	BenchmarkRuns      int
	BenchmarkSchedule  string
}
