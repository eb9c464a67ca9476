package intake

// Document is the loosely shaped execution context produced upstream.
// Every field is optional at decode time; FromDocument decides what a gap means.
type Document struct {
	ProjectID          string          `yaml:"project_id" json:"project_id"`
	Obligations        []ObligationDoc `yaml:"obligations" json:"obligations"`
	Lots               []LotDoc        `yaml:"lots" json:"lots"`
	LotComplexityCount *int            `yaml:"lot_complexity_count" json:"lot_complexity_count"`
	Scores             ScoresDoc       `yaml:"scores" json:"scores"`
	FinalGrade         string          `yaml:"final_grade" json:"final_grade"`
}

// ObligationDoc accepts either `type` or `classification`
type ObligationDoc struct {
	ID             string   `yaml:"id" json:"id"`
	Label          string   `yaml:"label" json:"label"`
	Type           string   `yaml:"type" json:"type"`
	Classification string   `yaml:"classification" json:"classification"`
	Severity       string   `yaml:"severity" json:"severity"`
	Weight         *float64 `yaml:"weight" json:"weight"`
}

// LotDoc accepts either `type` or `category`
type LotDoc struct {
	Code     string `yaml:"code" json:"code"`
	Label    string `yaml:"label" json:"label"`
	Type     string `yaml:"type" json:"type"`
	Category string `yaml:"category" json:"category"`
	Complex  bool   `yaml:"complex" json:"complex"`
}

// ScoresDoc carries pillar sub-scores on their native scales
type ScoresDoc struct {
	Enterprise *float64 `yaml:"enterprise" json:"enterprise"`
	Pricing    *float64 `yaml:"pricing" json:"pricing"`
	Quality    *float64 `yaml:"quality" json:"quality"`
	Global     *float64 `yaml:"global" json:"global"`
}
