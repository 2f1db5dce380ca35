package server

import (
	"fmt"
	"io"
	"net/http"

	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

var gameIDLetters = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// NewGameID makes a short code players can read out to each other
func (g *GameServer) NewGameID() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = gameIDLetters[g.rand.Intn(len(gameIDLetters))]
	}
	return string(code)
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func (g *GameServer) writeParseError(err error, w http.ResponseWriter) {
	if err == io.EOF {
		writeError(w, http.StatusBadRequest, "Missing body")
		return
	}
	g.logger.Info("could not parse request body", zap.Error(err))
	writeError(w, http.StatusBadRequest, "Malformed body")
}
