package domain

// LoadedArtifacts is the in-memory result of loading an artifact
// directory: the four parsed artifact files plus any non-fatal
// warnings collected along the way. NodeMap and BuildReport are nil
// when their files were absent (never an error).
type LoadedArtifacts struct {
	Manifest    Manifest
	Spans       []Span
	NodeMap     *NodeMap
	BuildReport *BuildReport
	Warnings    []Warning
}
