package testkit

import (
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gonum.org/v1/gonum/stat/distuv"

	"goskim/domain/frame"
)

// DemoSeed and DemoRows reproduce the stock demo dataset
const (
	DemoSeed uint64 = 34729
	DemoRows        = 1000
)

var textOptions = []string{
	"How are you?",
	"What weather!",
	"Indeed, it was the most outrageously pompous cat I have ever seen.",
}

var noFreqTimes = []time.Time{
	time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC),
	time.Date(1992, 1, 5, 0, 0, 0, 0, time.UTC),
}

// DemoDataGenerator builds a dataset with one or more columns of every
// summarized type
type DemoDataGenerator struct {
	rows  int
	src   rand.Source
	rng   *rand.Rand
	faker *gofakeit.Faker
}

// NewDemoDataGenerator creates a deterministic generator
func NewDemoDataGenerator(seed uint64, rows int) *DemoDataGenerator {
	src := rand.NewPCG(seed, seed)
	return &DemoDataGenerator{
		rows:  rows,
		src:   src,
		rng:   rand.New(src),
		faker: gofakeit.New(int64(seed)),
	}
}

// GenerateDemoDataset returns the demo dataset for seed and rows
func GenerateDemoDataset(seed uint64, rows int) (*frame.Dataset, error) {
	return NewDemoDataGenerator(seed, rows).Generate()
}

// Generate builds the dataset
func (g *DemoDataGenerator) Generate() (*frame.Dataset, error) {
	n := g.rows

	length := g.sample(distuv.Beta{Alpha: 0.5, Beta: 0.5, Src: g.src})
	// shape 1, scale 2
	width := g.sample(distuv.Gamma{Alpha: 1, Beta: 0.5, Src: g.src})
	depthDraws := g.sample(distuv.Poisson{Lambda: 10, Src: g.src})
	rnd := g.sample(distuv.Normal{Mu: 0, Sigma: 1, Src: g.src})

	depth := make([]int64, n)
	for i, d := range depthDraws {
		depth[i] = int64(d)
	}

	rndValues := floatsToAny(rnd)
	for i := 0; i < 125 && n > 0; i++ {
		rndValues[g.rng.IntN(n)] = nil
	}

	class := make([]any, n)
	for i := range class {
		class[i] = g.faker.RandomString([]string{"setosa", "virtginica"})
	}

	locations := []string{"UK", "Mexico", "USA", "India"}
	pick := distuv.NewCategorical([]float64{0.6, 0.2, 0.1, 0.1}, g.src)
	location := make([]any, n)
	for i := range location {
		location[i] = locations[int(pick.Rand())]
	}
	setNull(location, 3)

	booly := make([]bool, n)
	for i := range booly {
		booly[i] = g.faker.Bool()
	}

	text := make([]any, n)
	for i := range text {
		text[i] = g.faker.RandomString(textOptions)
	}
	setNull(text, 3, 5, 8, 9, 14, 22)

	datetimes := make([]any, n)
	dates := make([]any, n)
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range datetimes {
		// month ends: day 0 of the following month
		t := time.Date(start.Year(), start.Month()+time.Month(i)+1, 0, 0, 0, 0, 0, time.UTC)
		datetimes[i] = t
		dates[i] = frame.DateOf(t)
	}

	noFreq := make([]any, n)
	noFreqDates := make([]any, n)
	for i := range noFreq {
		t := noFreqTimes[g.rng.IntN(len(noFreqTimes))]
		noFreq[i] = t
		noFreqDates[i] = frame.DateOf(t)
	}
	setNull(noFreq, 3, 12, 0)

	days := distuv.Binomial{N: 40, P: 1.0 / 7.0, Src: g.src}
	timeDiff := make([]any, n)
	for i := range timeDiff {
		timeDiff[i] = time.Duration(days.Rand()) * 24 * time.Hour
	}
	setNull(timeDiff, 22, 1, 13, 65, 120)

	return frame.NewDataset("",
		frame.NewFloatColumn("length", length),
		frame.NewFloatColumn("width", width),
		frame.NewIntColumn("depth", depth),
		frame.NewColumn("rnd", rndValues),
		frame.NewCategoryColumn("class", class, false),
		frame.NewCategoryColumn("location", location, false),
		frame.NewBoolColumn("booly_col", booly),
		frame.NewColumn("text", text),
		frame.NewColumn("datetime", datetimes),
		frame.NewColumn("datetime_no_freq", noFreq),
		frame.NewColumn("datetime.date", dates),
		frame.NewColumn("datetime.date_no_freq", noFreqDates),
		frame.NewColumn("time diff", timeDiff),
	)
}

func (g *DemoDataGenerator) sample(dist interface{ Rand() float64 }) []float64 {
	out := make([]float64, g.rows)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

func floatsToAny(xs []float64) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// setNull blanks the given rows, skipping any past the end
func setNull(values []any, rows ...int) {
	for _, i := range rows {
		if i < len(values) {
			values[i] = nil
		}
	}
}
