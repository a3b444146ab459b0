package collision

// pairKey identifies one projectile/block pair.
type pairKey struct {
	projectile string
	block      string
}

// processedSet remembers pairs that already produced a collision so each
// pair is reported at most once while both ids stay registered.
type processedSet struct {
	pairs map[pairKey]struct{}
}

func newProcessedSet() *processedSet {
	return &processedSet{pairs: make(map[pairKey]struct{})}
}

func (s *processedSet) has(k pairKey) bool {
	_, ok := s.pairs[k]
	return ok
}

func (s *processedSet) add(k pairKey) {
	s.pairs[k] = struct{}{}
}

// purgeProjectile drops every pair involving projectile id.
func (s *processedSet) purgeProjectile(id string) {
	for k := range s.pairs {
		if k.projectile == id {
			delete(s.pairs, k)
		}
	}
}

// purgeBlock drops every pair involving block id.
func (s *processedSet) purgeBlock(id string) {
	for k := range s.pairs {
		if k.block == id {
			delete(s.pairs, k)
		}
	}
}

func (s *processedSet) len() int {
	return len(s.pairs)
}

func (s *processedSet) reset() {
	clear(s.pairs)
}
