package constants

const (
	// BoardWidth is the number of columns on the board
	BoardWidth int = 10
	// BoardHeight is the number of rows on the board
	BoardHeight int = 20

	// SpawnX is the column of the top-left corner of a freshly spawned piece
	SpawnX int = BoardWidth/2 - 1
	// SpawnY is the row of the top-left corner of a freshly spawned piece
	SpawnY int = 0

	// InitialLevel is the level at the start of a session
	InitialLevel int = 1
	// PointsPerLevel is the score needed to advance one level
	PointsPerLevel int = 1000

	// InitialDropInterval is the gravity interval at level 1 in milliseconds
	InitialDropInterval int = 1000
	// DropIntervalStep is how much faster gravity gets per level in milliseconds
	DropIntervalStep int = 100
	// MinDropInterval is the floor for the gravity interval in milliseconds
	MinDropInterval int = 100

	// SoftDropPoints is awarded for every successful downward step
	SoftDropPoints int = 1
	// HardDropMultiplier is the bonus per row travelled by a hard drop
	HardDropMultiplier int = 2

	// EnergyThreshold is the energy needed to unlock the treasure
	EnergyThreshold int = 5000
	// TreasureCodeLength is the number of characters in a treasure code
	TreasureCodeLength int = 8
	// TreasureCodeAlphabet is the set of characters a treasure code is drawn from
	TreasureCodeAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// LineClearPoints maps the number of rows cleared at once to the base points
// awarded before the level multiplier. Clears beyond the last entry use it.
var LineClearPoints = [...]int{0, 100, 300, 500, 800}
