package particlefx

// sortLifeScale is used as both the clamp ceiling and the multiplier when
// quantizing remaining life into the sort key's high 16 bits. SPEC_FULL §9
// records this as a deliberate fix of an inconsistency in the source,
// which used 65535 as ceiling and divisor in different paths — this repo
// uses one constant, consistently, in both roles.
const sortLifeScale = 65535.0

// computeSortKey packs a quantized elapsed-life fraction into the high
// 16 bits and the particle's stable index into the low 16 bits (§4.8), so
// equal-life particles sort by index rather than arbitrarily.
func computeSortKey(index int, p *Particle) uint32 {
	lifeNorm := (1 - p.TimeLeft*p.ooMaxLifeTime) * sortLifeScale
	if lifeNorm < 0 {
		lifeNorm = 0
	}
	if lifeNorm > sortLifeScale {
		lifeNorm = sortLifeScale
	}
	return uint32(index&0xffff) | (uint32(lifeNorm) << 16)
}

// sortParticles assigns each live particle's SortKey and sorts the slice
// in place by SortKey ascending (§4.8). Uses a bottom-up merge sort with a
// context-owned scratch buffer rather than sort.Slice, because sort.Slice
// allocates a closure and does reflection-based swaps — disqualifying per
// §5's "steady-state rendering never allocates" — and the teacher already
// solved this exact zero-alloc-scratch-buffer problem in render.go's
// mergeSort/mergeRun for its render command list; this adapts that
// solution to particles.
func sortParticles(e *Emitter, scratch *[]Particle) {
	for i := range e.Particles {
		e.Particles[i].SortKey = computeSortKey(i, &e.Particles[i])
	}

	n := len(e.Particles)
	if n <= 1 {
		return
	}

	sorted := true
	for i := 1; i < n; i++ {
		if e.Particles[i-1].SortKey > e.Particles[i].SortKey {
			sorted = false
			break
		}
	}
	if sorted {
		return
	}

	if cap(*scratch) < n {
		*scratch = make([]Particle, n)
	}
	buf := (*scratch)[:n]

	a := e.Particles
	b := buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := minInt(lo+width, n)
			hi := minInt(lo+2*width, n)
			mergeParticles(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(e.Particles, buf)
	}
}

func mergeParticles(src, dst []Particle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if src[i].SortKey <= src[j].SortKey {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
