package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/avask/devlink/internal/connection"
	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/session"
)

// queueSender hands system messages from the monitor's timer task to the
// connection's I/O task through the connection queue.
type queueSender struct {
	c *connection.Connection
}

func (q queueSender) SendSystemChange(msg protocol.GenericMessage) error {
	q.c.QueueSystem(msg)
	return nil
}

func main() {
	addr := flag.String("addr", "127.0.0.1:3883", "server address")
	sender := flag.String("sender", "devlink Ping", "sender name to register")
	flag.Parse()

	logging.ConfigureRuntime()
	if err := run(*addr, protocol.SenderName(*sender)); err != nil {
		fmt.Fprintf(os.Stderr, "devlink-ping: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string, senderName protocol.SenderName) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := session.DefaultConfig()
	ep, err := connection.DialEndpoint(ctx, addr, cfg, 5)
	if err != nil {
		return err
	}

	c := connection.NewClient(ep, cfg, connection.LogFileNames{}, connection.LogFileNames{})
	defer c.Close()

	sender, err := c.AddSender(senderName)
	if err != nil {
		return err
	}

	monitor := session.NewPingMonitor(sender, queueSender{c: c}, cfg.SilenceWarnAfter)
	if err := monitor.Bind(c.Dispatcher()); err != nil {
		return err
	}
	go func() {
		if err := monitor.Run(ctx, cfg.PingInterval); err != nil && !errors.Is(err, context.Canceled) {
			logging.Errorf("devlink-ping: monitor: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := c.Poll(); err != nil {
			if errors.Is(err, io.EOF) {
				logging.Infof("devlink-ping: server closed the connection")
				return nil
			}
			return err
		}
		if err := c.Flush(); err != nil {
			return err
		}
	}
}
