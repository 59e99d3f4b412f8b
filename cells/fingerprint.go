package cells

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// fingerprint digests the topology: sorted names, kinds and dependency
// edges. Every name is quoted, so a name carrying the separator bytes
// cannot make two different topologies serialize the same.
func fingerprint(byName map[string]*cell) uint64 {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		c := byName[name]
		sb.WriteString(strconv.Quote(name))
		if c.isInput() {
			sb.WriteString("|input")
		} else {
			sb.WriteString("|compute")
		}
		for _, dep := range c.deps {
			sb.WriteByte('<')
			sb.WriteString(strconv.Quote(dep.name))
		}
		sb.WriteByte('\n')
	}
	return xxhash.Sum64String(sb.String())
}
