// snppsink is a toy SNPP terminal for local testing: it accepts level
// 1 and 2 traffic, logs every page it is handed, and queues nothing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/pagectl/internal/logging"
	"github.com/danmuck/pagectl/internal/protocol"
)

func main() {
	addr := flag.String("addr", ":444", "listen address")
	flag.Parse()

	logging.ConfigureRuntime()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snppsink: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("snppsink listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "snppsink: accept: %v\n", err)
			os.Exit(1)
		}
		go serve(conn, log.With().Str("remote", conn.RemoteAddr().String()).Logger())
	}
}

// transaction is the page being assembled on one connection.
type transaction struct {
	pagers  []string
	message string
}

func (t *transaction) reset() {
	t.pagers = nil
	t.message = ""
}

func serve(conn net.Conn, logger zerolog.Logger) {
	defer conn.Close()
	logger.Info().Msg("session open")

	r := bufio.NewReader(conn)
	writeLine := func(line string) bool {
		_, err := conn.Write([]byte(line + protocol.CRLF))
		return err == nil
	}
	reply := func(code int, text string) bool {
		return writeLine(fmt.Sprintf("%03d %s", code, text))
	}

	if !reply(protocol.CodeGreeting, "snppsink ready") {
		return
	}

	var txn transaction
	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			logger.Info().Msg("session closed")
			return
		}
		cmd, err := protocol.ParseCommand(raw)
		if err != nil {
			if !reply(500, "command unrecognized") {
				return
			}
			continue
		}
		logger.Debug().Str("verb", cmd.Verb).Str("args", cmd.Args).Msg("command")

		switch cmd.Verb {
		case protocol.VerbPage:
			if cmd.Args == "" {
				if !reply(550, "pager id required") {
					return
				}
				continue
			}
			txn.pagers = append(txn.pagers, cmd.Args)
			if !reply(250, "pager ok") {
				return
			}
		case protocol.VerbMessage:
			txn.message = cmd.Args
			if !reply(250, "message ok") {
				return
			}
		case protocol.VerbData:
			if !reply(protocol.CodeBeginData, "begin input; end with <CRLF>'.'<CRLF>") {
				return
			}
			payload, err := readData(r)
			if err != nil {
				logger.Info().Msg("session closed mid-data")
				return
			}
			txn.message = payload
			if !reply(250, "message ok") {
				return
			}
		case protocol.VerbSend:
			if len(txn.pagers) == 0 || txn.message == "" {
				if !reply(503, "pager and message required first") {
					return
				}
				continue
			}
			logger.Info().
				Strs("pagers", txn.pagers).
				Str("message", txn.message).
				Msg("page received")
			txn.reset()
			if !reply(250, "message sent") {
				return
			}
		case protocol.VerbReset:
			txn.reset()
			if !reply(250, "reset ok") {
				return
			}
		case protocol.VerbHelp:
			ok := reply(protocol.CodeHelpLine, "PAGE MESS DATA SEND RESE HELP QUIT") &&
				reply(protocol.CodeHelpLine, "LOGI LEVE ALER COVE HOLD CALL SUBJ") &&
				reply(250, "end of help")
			if !ok {
				return
			}
		case protocol.VerbQuit:
			reply(221, "goodbye")
			logger.Info().Msg("session quit")
			return
		case protocol.VerbLogin, protocol.VerbLevel, protocol.VerbAlert,
			protocol.VerbCoverage, protocol.VerbHold, protocol.VerbCallerID,
			protocol.VerbSubject:
			if !reply(250, "ok") {
				return
			}
		default:
			if !reply(500, fmt.Sprintf("%s not implemented", cmd.Verb)) {
				return
			}
		}
	}
}

func readData(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line := strings.TrimRight(raw, "\r\n")
		if line == "." {
			return protocol.UnquoteData(b.String()), nil
		}
		b.WriteString(line)
		b.WriteString(protocol.CRLF)
	}
}
