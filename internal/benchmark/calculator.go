package benchmark

import (
	"math"
	"strconv"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

const (
	gradeExcellent = "A+"
	gradeGood      = "B+"
	gradeAverage   = "B"
	gradeBelow     = "C+"
	gradeNeedsWork = "C"
)

var noBenchmark = domain.BenchmarkResult{
	Grade:          "N/A",
	Percentile:     50,
	Category:       "No benchmark available",
	Recommendation: "Keep practicing!",
}

// Calculator is stateless apart from its table and safe for concurrent use.
type Calculator struct {
	table    Table
	exercise string
}

func NewCalculator(table Table) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{table: table, exercise: DefaultExercise}
}

// CompareProfile grades reps for the athlete described by profile.
func (c *Calculator) CompareProfile(reps int, profile domain.ProfileData) domain.BenchmarkResult {
	return c.Compare(reps, profile.Age, profile.Gender)
}

// Compare grades reps against the cohort for age and gender. A missing
// cohort yields a neutral fallback rather than an error.
func (c *Calculator) Compare(reps, age int, gender domain.Gender) domain.BenchmarkResult {
	th, ok := c.table.Lookup(c.exercise, gender, domain.AgeBand(age))
	if !ok {
		return noBenchmark
	}

	r := float64(reps)
	var (
		percentile float64
		res        domain.BenchmarkResult
	)

	switch {
	case reps >= th.Excellent:
		percentile = float64(90 + min(10, (reps-th.Excellent)/2))
		res = domain.BenchmarkResult{
			Grade:          gradeExcellent,
			Category:       "Excellent",
			Recommendation: "Outstanding performance! You're in the top tier for your age group.",
		}
	case reps >= th.Good:
		percentile = 70 + (r-float64(th.Good))/float64(th.Excellent-th.Good)*20
		res = domain.BenchmarkResult{
			Grade:          gradeGood,
			Category:       "Good",
			Recommendation: "Great job! You're performing above average for your age group.",
		}
	case reps >= th.Average:
		percentile = 40 + (r-float64(th.Average))/float64(th.Good-th.Average)*30
		res = domain.BenchmarkResult{
			Grade:          gradeAverage,
			Category:       "Average",
			Recommendation: "Solid performance! With consistent training, you can reach the next level.",
		}
	case reps >= th.Below:
		percentile = 20 + (r-float64(th.Below))/float64(th.Average-th.Below)*20
		res = domain.BenchmarkResult{
			Grade:          gradeBelow,
			Category:       "Below Average",
			Recommendation: "Keep working! Focus on proper form and gradual improvement.",
		}
	default:
		percentile = math.Max(5, r/float64(th.Below)*20)
		res = domain.BenchmarkResult{
			Grade:          gradeNeedsWork,
			Category:       "Needs Improvement",
			Recommendation: "Don't give up! Every rep counts towards building your strength.",
		}
	}

	res.Percentile = int(percentile)
	return res
}

// Composite weights reps 40%, form 30%, consistency 20% and depth 10%.
// Reps are normalised so that 50 reps score 100.
func Composite(a domain.AssessmentData) float64 {
	repScore := math.Min(100, float64(a.TotalReps)/50*100)
	score := repScore*0.4 + a.FormScore*0.3 + a.Consistency*0.2 + a.AverageDepth*0.1
	return RoundTenth(score)
}

// RoundTenth rounds v to one decimal from its exact binary value, ties to
// even. 0.25 becomes 0.2.
func RoundTenth(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
