package scoring

import "math"

// QuoteGrade is the presentation grade of the 0 ~ 1000 quote scale
type QuoteGrade string

const (
	QuoteGradeAPlus QuoteGrade = "A+"
	QuoteGradeA     QuoteGrade = "A"
	QuoteGradeB     QuoteGrade = "B"
	QuoteGradeC     QuoteGrade = "C"
	QuoteGradeD     QuoteGrade = "D"
	QuoteGradeE     QuoteGrade = "E"
	QuoteGradeF     QuoteGrade = "F"
)

// QuoteScore is a score expressed on the quote presentation scale
type QuoteScore struct {
	Points int        `json:"points"` // 0 ~ 1000
	Grade  QuoteGrade `json:"grade"`
}

// quoteBands 내림차순 하한값
var quoteBands = []struct {
	min   int
	grade QuoteGrade
}{
	{900, QuoteGradeAPlus},
	{800, QuoteGradeA},
	{650, QuoteGradeB},
	{500, QuoteGradeC},
	{350, QuoteGradeD},
	{200, QuoteGradeE},
}

// ToQuoteScale converts a 0 ~ 100 certification score to the 0 ~ 1000 quote scale.
// The two scales are never unified; certification always stays on 0 ~ 100 / A ~ E.
func ToQuoteScale(score float64) QuoteScore {
	if math.IsNaN(score) {
		score = 0
	}
	points := int(math.Round(clamp(score, 0, 100) * 10))

	grade := QuoteGradeF
	for _, b := range quoteBands {
		if points >= b.min {
			grade = b.grade
			break
		}
	}
	return QuoteScore{Points: points, Grade: grade}
}

// FromQuoteScale converts quote points back to the 0 ~ 100 scale
func FromQuoteScale(points int) float64 {
	if points < 0 {
		points = 0
	}
	if points > 1000 {
		points = 1000
	}
	return float64(points) / 10
}
