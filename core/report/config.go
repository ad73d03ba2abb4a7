package report

// Config holds configuration for written reports.
type Config struct {
	// Dir is the directory report files are written to.
	Dir string `mapstructure:"dir" default:"."`
	// CSV enables CSV output.
	CSV bool `mapstructure:"csv" default:"false"`
	// JSON enables JSON output.
	JSON bool `mapstructure:"json" default:"false"`
	// Upload pushes written files to object storage (requires storage.enabled).
	Upload bool `mapstructure:"upload" default:"false"`
}
