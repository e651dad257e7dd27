// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// OpenSerial opens the receiver UART (e.g. /dev/serial0, /dev/ttyUSB0) in 8N1 mode.
func OpenSerial(port string, baud int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	p, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("gps: open %s: %w", port, err)
	}
	return p, nil
}

// Scan reads NMEA lines from r and calls fn for every completed report.
// Unparseable sentences are passed to onErr (if set) and skipped.
// Scan returns when r fails or fn returns an error.
func Scan(r io.Reader, fn func(Report) error, onErr func(error)) error {
	var dec Decoder
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			rep, ok, perr := dec.Feed(line)
			if perr != nil {
				if onErr != nil {
					onErr(perr)
				}
			} else if ok {
				if ferr := fn(rep); ferr != nil {
					return ferr
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("gps: read: %w", err)
		}
	}
}
