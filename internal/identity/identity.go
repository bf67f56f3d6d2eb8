package identity

import (
	"math/rand/v2"
	"strconv"
)

var (
	Names    = []string{"user", "rahul", "priya", "ankit", "sara", "neha", "amit", "deepa", "rohan", "sneha", "vikram", "tanvi"}
	Suffixes = []string{"k", "91", "4821", "dev", "ai", "explorer", "v", "j", "s", "m"}
)

// Generator produces synthetic display names such as "neha_dev" or "amit_4821".
// Names are not unique. A Generator is not safe for concurrent use.
type Generator struct {
	rnd      *rand.Rand
	names    []string
	suffixes []string
}

func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd, names: Names, suffixes: Suffixes}
}

// NewSeeded returns a generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (g *Generator) Generate() string {
	base := g.names[g.rnd.IntN(len(g.names))]
	suffix := g.suffixes[g.rnd.IntN(len(g.suffixes))]
	if g.rnd.IntN(2) == 0 {
		return base + "_" + suffix
	}
	return base + "_" + strconv.Itoa(1000+g.rnd.IntN(9000))
}
