package jobs

// Config holds configuration for the task scheduler.
type Config struct {
	// Workers is the number of tasks allowed to run at once. Zero or less means GOMAXPROCS.
	Workers int `mapstructure:"workers" default:"0"`
}
