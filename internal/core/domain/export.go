package domain

// ExportFormat selects the serialization used for exported transactions.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	return f == ExportJSON || f == ExportCSV
}

// ContentType is the MIME type of the serialized bytes.
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv"
	}
	return "application/json"
}

// ExportFile is a serialized export ready to be handed to a client.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
