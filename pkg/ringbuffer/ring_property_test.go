package ringbuffer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// op is one step of a randomly generated producer/consumer interleaving,
// encoded as a single signed int: positive means "write n elements",
// negative means "read -n elements". This keeps the generator a plain
// []int8 so gopter can shrink it directly.
type op struct {
	write bool
	n     int
}

func decodeOps(raw []int8) []op {
	ops := make([]op, 0, len(raw))
	for _, v := range raw {
		if v == 0 {
			continue
		}
		if v > 0 {
			ops = append(ops, op{write: true, n: int(v)})
		} else {
			ops = append(ops, op{write: false, n: int(-v)})
		}
	}
	return ops
}

func genOps() gopter.Gen {
	return gen.SliceOfN(40, gen.Int8Range(-10, 10))
}

// TestPropertySPSCSafety drives the invariant from the testable-properties
// section: for any interleaving of a single producer and single consumer,
// read_space+write_space+1 == capacity always holds, no element written is
// read twice, and reads observe writes in FIFO order.
func TestPropertySPSCSafety(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ring invariants hold across any write/read interleaving", prop.ForAll(
		func(raw []int8) bool {
			const capacity = 16
			b := New[int](capacity)
			ops := decodeOps(raw)

			var nextWritten, nextExpectedRead int

			for _, o := range ops {
				if b.ReadSpace()+b.WriteSpace()+1 != capacity {
					return false
				}

				if o.write {
					src := make([]int, o.n)
					for i := range src {
						src[i] = nextWritten
						nextWritten++
					}
					written := b.Write(src)
					// Short writes only happen at capacity; give back the
					// unused sequence numbers so FIFO checking stays aligned.
					nextWritten -= o.n - written
				} else {
					dst := make([]int, o.n)
					got := b.Read(dst, true, 0)
					for i := 0; i < got; i++ {
						if dst[i] != nextExpectedRead {
							return false
						}
						nextExpectedRead++
					}
				}
			}
			return b.ReadSpace()+b.WriteSpace()+1 == capacity
		},
		genOps(),
	))

	properties.TestingRun(t)
}
