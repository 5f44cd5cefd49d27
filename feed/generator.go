package feed

import (
	"math/rand/v2"
	"strings"
)

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam
quis nostrud exercitation ullamco laboris nisi aliquip ex ea commodo consequat
duis aute irure in reprehenderit voluptate velit esse cillum fugiat nulla
pariatur excepteur sint occaecat cupidatat non proident sunt culpa qui officia
deserunt mollit anim id est laborum`)

// Generator produces lorem-style entries of varying length so rendered
// heights differ from item to item.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns the level and markdown text of a new entry: one to four
// sentences, sometimes followed by a short bullet list.
func (g *Generator) Next() (Level, string) {
	level := LevelInfo
	switch n := g.rnd.IntN(20); {
	case n == 0:
		level = LevelError
	case n < 3:
		level = LevelWarn
	}

	sentences := make([]string, 1+g.rnd.IntN(4))
	for i := range sentences {
		sentences[i] = g.sentence()
	}
	text := strings.Join(sentences, " ")
	if g.rnd.IntN(6) == 0 {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n")
		for range 2 + g.rnd.IntN(2) {
			b.WriteString("\n- ")
			b.WriteString(g.phrase(2 + g.rnd.IntN(4)))
		}
		text = b.String()
	}
	return level, text
}

func (g *Generator) sentence() string {
	s := g.phrase(4 + g.rnd.IntN(10))
	s = strings.ToUpper(s[:1]) + s[1:]
	return s + "."
}

// phrase joins n words; one in four gets markdown emphasis.
func (g *Generator) phrase(n int) string {
	parts := make([]string, n)
	for i := range parts {
		w := words[g.rnd.IntN(len(words))]
		switch g.rnd.IntN(16) {
		case 0:
			w = "**" + w + "**"
		case 1:
			w = "`" + w + "`"
		case 2:
			w = "_" + w + "_"
		}
		parts[i] = w
	}
	return strings.Join(parts, " ")
}
