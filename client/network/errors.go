package network

// ErrConnectionClosedByServer is returned when the server ends the websocket
type ErrConnectionClosedByServer struct {
	Reason string
}

func (e *ErrConnectionClosedByServer) Error() string {
	if e.Reason == "" {
		return "connection closed by server"
	}
	return "connection closed by server: " + e.Reason
}
