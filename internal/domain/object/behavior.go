package object

// Action is what the agent does in one tick after the POV resolved the raw
// action index.
type Action int

const (
	ActionForward Action = iota
	ActionTurnRight
	ActionTurnLeft
	ActionInteract
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionTurnRight:
		return "turn_right"
	case ActionTurnLeft:
		return "turn_left"
	case ActionInteract:
		return "interact"
	default:
		return "unknown"
	}
}

// Rand is the slice of the engine RNG that tick behaviors may consume.
type Rand interface {
	Intn(n int) int
}

type InteractContext struct {
	// Blocked reports whether a cell is outside the grid or holds a blocking
	// object.
	Blocked func(Point) bool
}

type TickContext struct {
	Action Action
	// Entered is true for the object whose cell the agent moved onto this tick.
	Entered bool
	Rand    Rand
}

type behavior struct {
	walkable func(o *Object) bool
	interact func(o, agent *Object, ctx InteractContext) float64
	step     func(o *Object, ctx TickContext) float64
}

// behaviors is the single registration point for per-kind behavior. Kinds
// without an entry fall back to the table defaults.
var behaviors = map[Kind]behavior{
	KindDoor: {
		walkable: func(o *Object) bool { return o.State == DoorOpen },
		interact: interactDoor,
	},
	KindKey: {
		interact: interactKey,
	},
	KindRandomBlock: {
		step: stepRandomBlock,
	},
	KindEnemy: {
		step: stepEnemy,
	},
	KindSmallReward: {
		interact: interactSmallReward,
		step:     stepSmallReward,
	},
	KindBall: {
		interact: interactBall,
	},
}

func (o *Object) IsWalkable() bool {
	if o.IsRemoved() {
		return false
	}
	if b, ok := behaviors[o.Kind]; ok && b.walkable != nil {
		return b.walkable(o)
	}
	return o.Meta().Walkable
}

func (o *Object) IsHarmful() bool {
	if o.IsRemoved() {
		return false
	}
	return o.Meta().Harmful
}

// Blocking objects stop agent movement and cannot share a cell.
func (o *Object) IsBlocking() bool {
	return !o.IsRemoved() && !o.IsWalkable()
}

// Interact applies the agent's interaction to o and returns the reward delta.
func (o *Object) Interact(agent *Object, ctx InteractContext) float64 {
	if o.IsRemoved() {
		return 0
	}
	b, ok := behaviors[o.Kind]
	if !ok || b.interact == nil {
		return 0
	}
	if ctx.Blocked == nil {
		ctx.Blocked = func(Point) bool { return false }
	}
	return b.interact(o, agent, ctx)
}

// Step advances o by one tick and returns the reward delta.
func (o *Object) Step(ctx TickContext) float64 {
	if o.IsRemoved() {
		return 0
	}
	b, ok := behaviors[o.Kind]
	if !ok || b.step == nil {
		return 0
	}
	return b.step(o, ctx)
}

// ApplyAgentAction turns or advances an agent. Interaction is dispatched by the
// engine on the front object.
func (o *Object) ApplyAgentAction(a Action, walkable bool) {
	switch a {
	case ActionForward:
		if walkable {
			o.Position = o.Front()
		}
	case ActionTurnRight:
		o.Face(o.Facing().TurnRight())
	case ActionTurnLeft:
		o.Face(o.Facing().Left())
	}
}

func interactDoor(o, agent *Object, _ InteractContext) float64 {
	switch o.State {
	case DoorLocked:
		if !agent.HoldsKey(o.Color) {
			return 0
		}
		o.State = DoorOpen
		agent.Color = agent.start.color
	case DoorClosed:
		o.State = DoorOpen
	default:
		o.State = DoorClosed
	}
	return 0
}

func interactKey(o, agent *Object, _ InteractContext) float64 {
	agent.Color = o.Color
	o.Remove()
	return 0
}

func interactSmallReward(o, _ *Object, _ InteractContext) float64 {
	o.Remove()
	return o.Reward
}

func interactBall(o, agent *Object, ctx InteractContext) float64 {
	next := o.Position.Add(o.Position.Sub(agent.Position))
	if !o.Zone.Contains(next) || ctx.Blocked(next) {
		return 0
	}
	o.Position = next
	return 0
}

func stepRandomBlock(o *Object, ctx TickContext) float64 {
	if ctx.Rand != nil {
		o.Color = Color(ctx.Rand.Intn(ColorCount))
	}
	return 0
}

func stepSmallReward(o *Object, ctx TickContext) float64 {
	if !ctx.Entered {
		return 0
	}
	o.Remove()
	return o.Reward
}

// stepEnemy walks one cell per tick and turns around at its start cell and at
// the end of its reach.
func stepEnemy(o *Object, _ TickContext) float64 {
	facing := o.Facing()
	if o.Reach > 0 {
		o.Position = o.Position.Add(facing.Vector())
	}
	cur, start := o.Position.X, o.start.position.X
	if facing == DirUp || facing == DirDown {
		cur, start = o.Position.Y, o.start.position.Y
	}
	if cur == start || cur == start+o.Reach || cur == start-o.Reach {
		o.Face(facing.Opposite())
	}
	return 0
}
