package filename

import (
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"time"
)

const (
	DefaultPrefix    = "image"
	DefaultExtension = "png"

	// RandomSpace is the number of distinct random suffixes per second.
	RandomSpace = 10000

	timeLayout = "20060102_150405"
)

// Generator derives stored blob names from upload names.
// Names have the form <prefix>_YYYYMMDD_HHMMSS_<n>.<ext> with n in [0, RandomSpace).
type Generator struct {
	Now    func() time.Time
	IntN   func(n int) int
	Prefix string
}

// Default uses the wall clock and the global random source.
func Default() *Generator {
	return &Generator{Now: time.Now, IntN: rand.IntN, Prefix: DefaultPrefix}
}

// Generate never fails; the original name only contributes its extension.
func (g *Generator) Generate(original string) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	intN := rand.IntN
	if g.IntN != nil {
		intN = g.IntN
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return fmt.Sprintf("%s_%s_%d.%s", prefix, now().Format(timeLayout), intN(RandomSpace), Extension(original))
}

// Extension returns the text after the final dot of the base name, or
// DefaultExtension when there is none or it is not plain alphanumeric.
func Extension(original string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(original), "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 || idx == len(base)-1 {
		return DefaultExtension
	}
	ext := base[idx+1:]
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return DefaultExtension
		}
	}
	return ext
}
