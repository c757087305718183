package spec

// File is the top-level bridge spec: where records come from, which
// connector they go to, and where each side's config lives.
type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	Bridge struct {
		Config string `yaml:"config"`
	} `yaml:"bridge"`
}
