package manifest

// Artifact describes a generated output file.
type Artifact struct {
	Kind   Kind
	Path   string
	Symbol string
	// Bytes is the payload size embedded in the file, not the file size.
	Bytes int
	// Changed is false when the rewrite produced identical contents.
	Changed bool
}
