package experiment

import (
	"strconv"

	"github.com/cloud-oracle/cloud-oracle/oracle/synth"
)

// Defaults applied when an argument list is empty.
const (
	defaultRegions       = 10
	defaultClientRegions = 5
	defaultBatchSize     = 1
	defaultPrecision     = "float64"
	defaultSeed          = 42
	defaultConfidence    = 0.95
	defaultIterations    = 10
)

// Combination is one point of an experiment's argument cross product.
type Combination struct {
	Regions       int
	RegionsOther  int
	ClientRegions int
	BatchSize     int
	Threads       int
	Precision     string
	DriftType     string
	Distribution  string
	RandomPlanes  bool
	Seed          int64
	FractionA     float64
	FractionB     float64
	ChangeA       float64
	ChangeB       float64
	Confidence    float64
}

// Shape returns the catalogue size and workload dimension: two-replica
// placements over Regions serving ClientRegions.
func (c Combination) Shape() (numPlanes, dim int) {
	return synth.PlacementShape(c.Regions, c.ClientRegions)
}

// axis is one argument list of the cross product.
type axis struct {
	size int
	set  func(c *Combination, i int)
}

func axes(a Args) []axis {
	regions := orDefault(a.Regions, defaultRegions)
	regionsOther := orDefault(a.RegionsOther, 0)
	clients := orDefault(a.ClientRegions, defaultClientRegions)
	batch := orDefault(a.BatchSize, defaultBatchSize)
	threads := orDefault(a.Threads, 0)
	precision := orDefault(a.Precision, defaultPrecision)
	driftType := orDefault(a.DriftType, DriftDirected)
	dist := orDefault(a.Distribution, string(synth.PointsZero))
	random := orDefault(a.RandomPlanes, false)
	seed := orDefault(a.Seed, int64(defaultSeed))
	fracA := orDefault(a.FractionA, 0)
	fracB := orDefault(a.FractionB, 0)
	changeA := orDefault(a.ChangeA, 1)
	changeB := orDefault(a.ChangeB, 1)
	confidence := orDefault(a.Confidence, defaultConfidence)

	return []axis{
		{len(regions), func(c *Combination, i int) { c.Regions = regions[i] }},
		{len(regionsOther), func(c *Combination, i int) { c.RegionsOther = regionsOther[i] }},
		{len(clients), func(c *Combination, i int) { c.ClientRegions = clients[i] }},
		{len(batch), func(c *Combination, i int) { c.BatchSize = batch[i] }},
		{len(threads), func(c *Combination, i int) { c.Threads = threads[i] }},
		{len(precision), func(c *Combination, i int) { c.Precision = precision[i] }},
		{len(driftType), func(c *Combination, i int) { c.DriftType = driftType[i] }},
		{len(dist), func(c *Combination, i int) { c.Distribution = dist[i] }},
		{len(random), func(c *Combination, i int) { c.RandomPlanes = random[i] }},
		{len(seed), func(c *Combination, i int) { c.Seed = seed[i] }},
		{len(fracA), func(c *Combination, i int) { c.FractionA = fracA[i] }},
		{len(fracB), func(c *Combination, i int) { c.FractionB = fracB[i] }},
		{len(changeA), func(c *Combination, i int) { c.ChangeA = changeA[i] }},
		{len(changeB), func(c *Combination, i int) { c.ChangeB = changeB[i] }},
		{len(confidence), func(c *Combination, i int) { c.Confidence = confidence[i] }},
	}
}

// Expand returns the cross product of the experiment's arguments in odometer
// order: the last argument varies fastest.
func (e *Experiment) Expand() []Combination {
	ax := axes(e.Args)
	total := 1
	for _, a := range ax {
		total *= a.size
	}

	combos := make([]Combination, 0, total)
	idx := make([]int, len(ax))
	for n := 0; n < total; n++ {
		var c Combination
		for k, a := range ax {
			a.set(&c, idx[k])
		}
		if c.RegionsOther == 0 {
			c.RegionsOther = c.Regions
		}
		combos = append(combos, c)

		for k := len(ax) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < ax[k].size {
				break
			}
			idx[k] = 0
		}
	}
	return combos
}

// iterations returns the timed iteration count, defaulting when unset.
func (e *Experiment) iterations() int {
	if e.Iterations == 0 {
		return defaultIterations
	}
	return e.Iterations
}

// csvHeader lists the columns written for every measurement.
var csvHeader = []string{
	"experiment", "use_case",
	"regions", "regions_other", "client_regions", "num_planes", "dim",
	"batch_size", "threads", "precision", "drift_type", "distribution", "random_planes", "seed",
	"fraction_a", "fraction_b", "change_a", "change_b", "confidence",
	"iterations", "elapsed_s", "time_per_iteration_s", "result",
}

// Measurement is one timed combination.
type Measurement struct {
	Experiment       string
	UseCase          UseCase
	Combination      Combination
	Iterations       int
	Elapsed          float64 // seconds over all timed iterations
	TimePerIteration float64 // seconds
	Result           float64 // last iteration's headline value, see Workload
}

func (m Measurement) record() []string {
	c := m.Combination
	numPlanes, dim := c.Shape()
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		m.Experiment, string(m.UseCase),
		strconv.Itoa(c.Regions), strconv.Itoa(c.RegionsOther), strconv.Itoa(c.ClientRegions),
		strconv.Itoa(numPlanes), strconv.Itoa(dim),
		strconv.Itoa(c.BatchSize), strconv.Itoa(c.Threads), c.Precision, c.DriftType, c.Distribution,
		strconv.FormatBool(c.RandomPlanes), strconv.FormatInt(c.Seed, 10),
		f(c.FractionA), f(c.FractionB), f(c.ChangeA), f(c.ChangeB), f(c.Confidence),
		strconv.Itoa(m.Iterations), f(m.Elapsed), f(m.TimePerIteration), f(m.Result),
	}
}
