package config

// positive constrains types eligible for skip-on-zero fact application.
type positive interface {
	~int | ~float64
}

// applyPositive sets facts[key] = value when value is positive.
// Zero values are skipped, allowing the analyzer to use its built-in default.
func applyPositive[T positive](facts map[string]any, key string, value T) {
	if value > 0 {
		facts[key] = value
	}
}

// applyBool sets facts[key] = value unconditionally.
// Boolean config fields are always applied because false is a meaningful override.
func applyBool(facts map[string]any, key string, value bool) {
	facts[key] = value
}

// ApplyToFacts merges config values into the analyzer facts map.
// Only non-zero numeric config values override existing facts; zero values
// indicate "use analyzer default" and are skipped.
func (c *Config) ApplyToFacts(facts map[string]any) {
	applyBool(facts, "Classify.Sentiment", c.History.Classify.Sentiment)
	applyPositive(facts, "Contributors.TopN", c.History.Contributors.TopAuthors)

	applyPositive(facts, "Complexity.Threshold", c.Static.Complexity.Threshold)
	applyPositive(facts, "Complexity.TopFunctions", c.Static.Complexity.TopFunctions)
	applyPositive(facts, "Depgraph.MaxGraphNodes", c.Static.Depgraph.MaxGraphNodes)
	applyPositive(facts, "Sizes.LargestFiles", c.Static.Sizes.LargestFiles)
}
