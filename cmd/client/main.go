// Command client is a debug WebSocket client: it joins a room and
// prints every decoded snapshot to stdout. It carries no rendering or
// client-side prediction — that surface is explicitly out of scope.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/amalg016/bomb-arena/internal/protocol"
	"github.com/amalg016/bomb-arena/internal/transport"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:2567", "server address (host:port)")
	code := flag.String("code", "", "join an existing room by its code")
	mode := flag.String("mode", "pvp", "game mode when not joining by code: pvp or pve")
	private := flag.Bool("private", false, "create a private room (only used without --code)")
	ready := flag.Bool("ready", false, "send a ready message immediately after joining")
	flag.Parse()

	client, err := transport.Dial(transport.DialOptions{
		Addr: *addr, Code: *code, Mode: *mode, Private: *private,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if *ready {
		if err := client.SendReady(); err != nil {
			fmt.Fprintf(os.Stderr, "send ready: %v\n", err)
		}
	}

	for {
		env, err := client.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection closed: %v\n", err)
			return
		}
		printEnvelope(env)
	}
}

func printEnvelope(env *protocol.Envelope) {
	switch env.Type {
	case protocol.MsgJoinAccept:
		var m protocol.JoinAcceptMsg
		if err := protocol.DecodePayload(env, &m); err == nil {
			fmt.Printf("[join-accept] playerId=%d roomCode=%s phase=%s\n", m.PlayerID, m.Snapshot.RoomCode, m.Snapshot.Phase)
		}
	case protocol.MsgJoinError:
		var m protocol.JoinErrorMsg
		if err := protocol.DecodePayload(env, &m); err == nil {
			fmt.Printf("[join-error] %s: %s\n", m.Category, m.Message)
		}
	case protocol.MsgSnapshot:
		var m protocol.Snapshot
		if err := protocol.DecodePayload(env, &m); err == nil {
			body, _ := json.Marshal(m)
			fmt.Printf("[snapshot] phase=%s level=%d players=%d %s\n", m.Phase, m.Level, len(m.Players), body)
		}
	default:
		fmt.Printf("[%s] %s\n", env.Type, string(env.Payload))
	}
}
