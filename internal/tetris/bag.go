package tetris

// Xorshift is a 32-bit xorshift generator. Its sequence is fully
// determined by the seed.
type Xorshift struct {
	state uint32
}

// NewXorshift seeds a generator. Only the low 32 bits of seed are used
// and a zero seed is replaced by 1, since zero is a fixed point.
func NewXorshift(seed int64) *Xorshift {
	s := uint32(seed)
	if s == 0 {
		s = 1
	}
	x := &Xorshift{state: s}
	for i := 0; i < 10; i++ {
		x.Next()
	}
	return x
}

// Next advances the generator and returns the new state. All three shifts
// go left, so games replay identically in other clients of the protocol.
// The low bit of the state never changes.
func (x *Xorshift) Next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s << 17
	s ^= s << 5
	x.state = s
	return s
}

// Intn returns a value in [0, n) taken from the high bits of Next. n must
// be positive.
func (x *Xorshift) Intn(n int) int {
	return int(uint64(x.Next()) * uint64(n) >> 32)
}

// Bag is a 7-bag randomizer: every consecutive run of seven draws,
// aligned to refills, is a permutation of all piece types.
type Bag struct {
	pending []PieceType
	rng     *Xorshift
	fixed   []PieceType
	pos     int
}

// NewBag returns a bag seeded with seed.
func NewBag(seed int64) *Bag {
	return &Bag{
		pending: make([]PieceType, 0, PieceTypeCount),
		rng:     NewXorshift(seed),
	}
}

// NewFixedBag returns a bag that cycles through seq forever.
// It is meant for tests and scripted puzzles.
func NewFixedBag(seq ...PieceType) *Bag {
	if len(seq) == 0 {
		panic("tetris: fixed bag needs at least one piece")
	}
	return &Bag{fixed: append([]PieceType(nil), seq...)}
}

// Next draws the next piece type, refilling the bag when it is empty.
func (b *Bag) Next() PieceType {
	if b.fixed != nil {
		t := b.fixed[b.pos%len(b.fixed)]
		b.pos++
		return t
	}
	if len(b.pending) == 0 {
		b.refill()
	}
	t := b.pending[0]
	b.pending = b.pending[1:]
	return t
}

// Len returns the number of draws left before the next refill.
func (b *Bag) Len() int {
	return len(b.pending)
}

func (b *Bag) refill() {
	pieces := AllPieceTypes
	for i := len(pieces) - 1; i >= 1; i-- {
		j := int(b.rng.Next() % uint32(i+1))
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}
	b.pending = append(b.pending[:0], pieces[:]...)
}
