package loam

// ScenarioMetadata is the frontmatter of a scenario document. The document
// body is the program text.
type ScenarioMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Title       string `json:"title,omitempty" mapstructure:"title"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Trials      int    `json:"trials,omitempty" mapstructure:"trials"`
}
