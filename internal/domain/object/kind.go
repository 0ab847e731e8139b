package object

type Kind int

const (
	KindAgent Kind = iota + 1
	KindWall
	KindTarget
	KindDoor
	KindKey
	KindRandomBlock
	KindEnemy
	KindSmallReward
	KindBall
)

// VoidIdentifier encodes cells that are empty, outside the grid or hidden
// from the agent.
const VoidIdentifier = 0

// MaxIdentifier is the largest identifier a kind can carry.
const MaxIdentifier = int(KindBall)

type Color int

const (
	ColorBlack Color = iota
	ColorOrange
	ColorGreen
	ColorRed
	ColorBlue
	ColorYellow
	ColorCyan
	ColorPurple
	ColorGrey
	ColorWhite
)

const ColorCount = 10

func (c Color) Normalize() Color {
	if c < 0 || c >= ColorCount {
		return ColorBlack
	}
	return c
}

var colorNames = [ColorCount]string{"black", "orange", "green", "red", "blue", "yellow", "cyan", "purple", "grey", "white"}

func (c Color) String() string {
	return colorNames[c.Normalize()]
}

type Meta struct {
	Kind       Kind
	Identifier int
	Name       string
	Glyph      rune
	Walkable   bool
	Harmful    bool
	// Ticks marks kinds whose Step changes state every tick.
	Ticks bool
}

var kindTable = buildKindTable()

func buildKindTable() map[Kind]Meta {
	rows := []Meta{
		{Kind: KindAgent, Name: "agent", Glyph: '>'},
		{Kind: KindWall, Name: "wall", Glyph: '#'},
		{Kind: KindTarget, Name: "target", Glyph: 'T', Walkable: true},
		{Kind: KindDoor, Name: "door", Glyph: 'D'},
		{Kind: KindKey, Name: "key", Glyph: 'k', Walkable: true},
		{Kind: KindRandomBlock, Name: "random_block", Glyph: '?', Ticks: true},
		{Kind: KindEnemy, Name: "enemy", Glyph: 'E', Walkable: true, Harmful: true, Ticks: true},
		{Kind: KindSmallReward, Name: "small_reward", Glyph: '*', Walkable: true, Ticks: true},
		{Kind: KindBall, Name: "ball", Glyph: 'o'},
	}
	out := make(map[Kind]Meta, len(rows))
	for _, row := range rows {
		row.Identifier = int(row.Kind)
		out[row.Kind] = row
	}
	return out
}

func Lookup(k Kind) (Meta, bool) {
	m, ok := kindTable[k]
	return m, ok
}

func KindByIdentifier(id int) (Kind, bool) {
	k := Kind(id)
	_, ok := kindTable[k]
	return k, ok
}

func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if kindTable[k].Name == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds lists every kind in identifier order.
func Kinds() []Kind {
	return []Kind{
		KindAgent,
		KindWall,
		KindTarget,
		KindDoor,
		KindKey,
		KindRandomBlock,
		KindEnemy,
		KindSmallReward,
		KindBall,
	}
}

func (k Kind) Identifier() int {
	return kindTable[k].Identifier
}

func (k Kind) String() string {
	if m, ok := kindTable[k]; ok {
		return m.Name
	}
	return "unknown"
}
