package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/avask/devlink/internal/connection"
	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/protocol/frame"
)

func main() {
	flag.Parse()
	logging.ConfigureRuntime()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: devlink-dump <stream-log>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "devlink-dump: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	ep, err := connection.OpenFile(path, frame.DefaultLimits())
	if err != nil {
		return err
	}
	defer ep.Close()

	cookie := ep.Cookie()
	fmt.Printf("# stream log version %02d.%02d log_mode=%d\n",
		cookie.Version.Major, cookie.Version.Minor, cookie.LogMode)

	var count int
	for {
		msg, err := ep.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		count++
		fmt.Printf("seq=%d time=%s type=%d sender=%d body=%dB\n",
			msg.Sequence, msg.Header.Time.Time().Format("15:04:05.000000"),
			msg.Header.Type, msg.Header.Sender, len(msg.Body))
	}
	fmt.Printf("# %d messages\n", count)
	return nil
}
