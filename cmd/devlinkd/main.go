package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/avask/devlink/internal/connection"
	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/observability"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/session"
)

func main() {
	configPath := flag.String("config", "", "path to devlinkd.toml")
	flag.Parse()

	logging.ConfigureRuntime()
	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "devlinkd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := DefaultServerConfig()
	if configPath != "" {
		loaded, err := LoadServerConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer ln.Close()
	logging.Infof("devlinkd listening on %s", ln.Addr())

	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.ServeMetrics(cfg.MetricsAddr); err != nil {
				logging.Errorf("devlinkd: metrics listener: %v", err)
			}
		}()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go serve(conn, cfg)
	}
}

func serve(raw net.Conn, cfg ServerConfig) {
	ep, err := connection.AcceptEndpoint(raw, cfg.Session)
	if err != nil {
		logging.Warnf("devlinkd: handshake with %s failed: %v", raw.RemoteAddr(), err)
		return
	}

	c := connection.NewServer(cfg.Session, connection.LogFileNames{
		InLog:  cfg.InLogName,
		OutLog: cfg.OutLogName,
	})
	c.AddEndpoint(ep)
	defer c.Close()

	if err := session.BindPingResponder(c.Dispatcher(), c); err != nil {
		logging.Errorf("devlinkd: %v", err)
		return
	}
	c.Dispatcher().Register(nil, nil, func(msg *protocol.GenericMessage) error {
		logging.Debugf("devlinkd: message type=%d sender=%d body=%dB",
			msg.Header.Type, msg.Header.Sender, len(msg.Body))
		return nil
	})

	for {
		if err := c.Poll(); err != nil {
			if errors.Is(err, io.EOF) {
				logging.Infof("devlinkd: peer %s disconnected", raw.RemoteAddr())
			} else {
				logging.Warnf("devlinkd: connection to %s failed: %v", raw.RemoteAddr(), err)
			}
			return
		}
		if err := c.Flush(); err != nil {
			logging.Warnf("devlinkd: flush to %s failed: %v", raw.RemoteAddr(), err)
			return
		}
	}
}
