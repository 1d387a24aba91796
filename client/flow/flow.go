package flow

type GameMode int

const (
	GameModeMenu GameMode = iota
	GameModeLocalPlay
	GameModeRemotePlay
)

func (m GameMode) String() string {
	switch m {
	case GameModeMenu:
		return "Menu"
	case GameModeLocalPlay:
		return "Local Play"
	case GameModeRemotePlay:
		return "Remote Play"
	}
	return "Unknown"
}
