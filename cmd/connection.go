// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/workswell/weomlink/pkg/seriallink"
	"github.com/workswell/weomlink/pkg/tcsi"
	"github.com/workswell/weomlink/pkg/weom"
)

// getPassword retrieves the bridge password from the environment or prompts
// the user without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("WEOMLINK_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openDataLink opens either a serial or WebSocket data link based on flags.
func openDataLink() (tcsi.DataLink, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		link, err := seriallink.DialWebSocket(seriallink.WebSocketConfig{
			URL:                wsURL,
			Username:           wsUsername,
			Password:           password,
			InsecureSkipVerify: wsNoSSLVerify,
		})
		if err != nil {
			return nil, "", err
		}
		return link, fmt.Sprintf("WebSocket %s", wsURL), nil
	}

	if portName == "" {
		return nil, "", fmt.Errorf("no connection given: use --port or --url")
	}

	link, err := seriallink.OpenSerial(portName, baudRate)
	if err != nil {
		return nil, "", err
	}
	return link, fmt.Sprintf("Serial %s @ %d", portName, baudRate), nil
}

// openCamera opens the data link and attaches the typed facade, verifying
// the device identificator.
func openCamera() (*weom.WEOM, tcsi.DataLink, error) {
	link, connInfo, err := openDataLink()
	if err != nil {
		return nil, nil, err
	}

	camera := weom.New()
	if err := camera.SetDataLink(link); err != nil {
		link.Close()
		return nil, nil, fmt.Errorf("device identification failed on %s: %w", connInfo, err)
	}

	return camera, link, nil
}
