package flatbuffers

//go:generate flatc --go -o . message.fbs gamestate.fbs
