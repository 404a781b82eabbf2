package tally

import (
	"encoding/binary"
	"github.com/cespare/xxhash/v2"
	"math"
)

// Fingerprint hashes the full ordered content of rs. Two sequences with the
// same records in the same order share a fingerprint.
func Fingerprint(rs []Record) uint64 {
	d := xxhash.New()
	bs := make([]byte, 8)

	for i := range rs {
		for _, f := range [...]float64{rs[i].Diameter, rs[i].Length, rs[i].Volume, rs[i].Weight} {
			binary.LittleEndian.PutUint64(bs, math.Float64bits(f))
			_, _ = d.Write(bs)
		}

		_, _ = d.WriteString(string(rs[i].Category))
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}
