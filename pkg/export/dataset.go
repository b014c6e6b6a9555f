package export

// Dataset is a titled table. Rows are positional and aligned with Headers.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is an ordered set of tables rendered into one export.
type Document struct {
	Title    string
	Sections []Dataset
}
