package catalog

// Default competence keys.
const (
	Concentration    = "concentration"
	GeneralKnowledge = "connaissances_generales"
	Creativity       = "creativite"
	CriticalThinking = "sens_critique"
	ProblemSolving   = "resolution_problemes"
	Communication    = "communication"
	Programming      = "programmation"
	Mathematics      = "mathematiques"
)

// DefaultCompetences returns the shipped catalog definitions, causes first.
func DefaultCompetences() []Competence {
	return []Competence{
		{Key: Concentration, Label: "Concentration", Icon: "🎯", Kind: KindCause, Description: "Ability to sustain attention"},
		{Key: GeneralKnowledge, Label: "General knowledge", Icon: "📚", Kind: KindCause, Description: "Cultural and factual grounding"},
		{Key: Creativity, Label: "Creativity", Icon: "🎨", Kind: KindCause, Description: "Divergent thinking and invention"},
		{Key: CriticalThinking, Label: "Critical thinking", Icon: "🔍", Kind: KindCause, Description: "Ability to analyse and evaluate"},

		{Key: ProblemSolving, Label: "Problem solving", Icon: "🧩", Kind: KindEffect, Description: "Methodical application of knowledge"},
		{Key: Communication, Label: "Communication", Icon: "💬", Kind: KindEffect, Description: "Expressing and sharing ideas"},
		{Key: Programming, Label: "Programming", Icon: "💻", Kind: KindEffect, Description: "Structured and creative logic"},
		{Key: Mathematics, Label: "Mathematics", Icon: "🔢", Kind: KindEffect, Description: "Logical and abstract reasoning"},
	}
}

// DefaultRelations returns the shipped cause -> effects map.
func DefaultRelations() Relations {
	return Relations{
		Concentration:    {ProblemSolving, Mathematics},
		GeneralKnowledge: {Communication, Programming},
		Creativity:       {Programming, ProblemSolving},
		CriticalThinking: {Communication, Mathematics},
	}
}

// Default builds the shipped catalog. It panics only if the built-in tables
// are inconsistent, which the package tests rule out.
func Default() *Catalog {
	c, err := New(DefaultCompetences(), DefaultRelations())
	if err != nil {
		panic(err)
	}
	return c
}
