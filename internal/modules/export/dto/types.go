package dto

type ExporterInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Formats []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type ExportInput struct {
	Exporter string
	Format   string
	Date     string
	// Offline renders from the local plan cache instead of fetching.
	Offline bool
}

type ExportOutput struct {
	Exporter string
	Format   string
	Date     string
	Document string
	MimeType string
}
