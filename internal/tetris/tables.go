package tetris

// Point is a cell offset or board coordinate. Y grows upward.
type Point struct {
	X, Y int
}

// Bounds is the inclusive range of legal origin positions for one
// piece type in one rotation.
type Bounds struct {
	MinX, MaxX, MinY, MaxY int
}

// Contains reports whether the origin (x, y) lies within b.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// shapes holds the occupied cells of each piece inside its 4x4 box,
// indexed by type and rotation.
var shapes = [PieceTypeCount][4][4]Point{
	PieceO: {
		{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
		{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
		{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
		{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
	},
	PieceI: {
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	PieceT: {
		{{0, 1}, {1, 1}, {1, 2}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 1}},
		{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceL: {
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceJ: {
		{{0, 1}, {0, 2}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 0}, {2, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceS: {
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 1}, {1, 2}, {2, 0}, {2, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
	},
	PieceZ: {
		{{0, 2}, {1, 1}, {1, 2}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
}

var (
	boundsO = [4]Bounds{{-1, 7, -1, 21}, {-1, 7, -1, 21}, {-1, 7, -1, 21}, {-1, 7, -1, 21}}
	boundsI = [4]Bounds{{0, 6, -2, 21}, {-2, 7, 0, 20}, {0, 6, -1, 22}, {-1, 8, 0, 20}}
	// Shared by T, L, J, S and Z.
	bounds3x3 = [4]Bounds{{0, 7, -1, 21}, {-1, 7, 0, 21}, {0, 7, 0, 22}, {0, 8, 0, 21}}
)

var locationBounds = [PieceTypeCount][4]Bounds{
	PieceO: boundsO,
	PieceI: boundsI,
	PieceT: bounds3x3,
	PieceL: bounds3x3,
	PieceJ: bounds3x3,
	PieceS: bounds3x3,
	PieceZ: bounds3x3,
}

// kickTable is indexed [from][to]. Entries where from == to are empty.
type kickTable [4][4][]Point

var noKick = []Point{{0, 0}}

var kicksO = kickTable{
	{nil, noKick, noKick, noKick},
	{noKick, nil, noKick, noKick},
	{noKick, noKick, nil, noKick},
	{noKick, noKick, noKick, nil},
}

var kicksI = kickTable{
	{
		nil,
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		noKick,
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	},
	{
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		nil,
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		noKick,
	},
	{
		noKick,
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		nil,
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	},
	{
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		noKick,
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		nil,
	},
}

var kicks3x3 = kickTable{
	{
		nil,
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		noKick,
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	{
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		nil,
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		noKick,
	},
	{
		noKick,
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		nil,
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	{
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		noKick,
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		nil,
	},
}

var kicks = [PieceTypeCount]*kickTable{
	PieceO: &kicksO,
	PieceI: &kicksI,
	PieceT: &kicks3x3,
	PieceL: &kicks3x3,
	PieceJ: &kicks3x3,
	PieceS: &kicks3x3,
	PieceZ: &kicks3x3,
}

// spawnPoint returns the origin a fresh piece of type t starts at.
func spawnPoint(t PieceType) Point {
	if t == PieceI {
		return Point{3, 19}
	}
	return Point{3, 20}
}

// Shape returns the box-relative cells of t in the given rotation.
func Shape(t PieceType, rotation int) [4]Point {
	return shapes[t][rotation&3]
}

// LocationBounds returns the legal origin range of t in the given rotation.
func LocationBounds(t PieceType, rotation int) Bounds {
	return locationBounds[t][rotation&3]
}

// Kicks returns the ordered offsets tried when rotating t from one
// rotation state to another.
func Kicks(t PieceType, from, to int) []Point {
	return kicks[t][from&3][to&3]
}
