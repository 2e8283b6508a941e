package heatmaster

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusressel/hwmon2go/internal/transport"
)

var (
	ErrTimeout          = errors.New("timeout reading line")
	ErrFieldUnavailable = errors.New("field unavailable")
)

const (
	lineTerminator = 0x0D
	syncByte       = 0xAA

	fieldAttempts = 5
)

var lineTimeout = 200 * time.Millisecond

// connection implements the line based request/reply protocol
type connection struct {
	port   transport.Port
	buffer *transport.Buffer
	// first failed write, the device is unusable afterwards
	writeErr error
}

func newConnection(port transport.Port) *connection {
	return &connection{
		port:   port,
		buffer: transport.NewBuffer(port),
	}
}

func (c *connection) writeLine(line string) error {
	_, err := c.port.Write(append([]byte(line), lineTerminator))
	if err != nil && c.writeErr == nil {
		c.writeErr = err
	}
	return err
}

// readLine returns the next line without terminator. A sync byte is
// returned on its own, discarding a partially received line.
func (c *connection) readLine(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	var line []byte
	for {
		for c.buffer.Available() > 0 {
			b, _ := c.buffer.ReadByte()
			switch b {
			case syncByte:
				return string([]byte{b}), nil
			case lineTerminator:
				return string(line), nil
			}
			line = append(line, b)
		}
		if !time.Now().Before(deadline) {
			return "", ErrTimeout
		}
		if _, err := c.buffer.Fill(); err != nil {
			return "", err
		}
	}
}

func (c *connection) readField(device int, field byte) (string, error) {
	if err := c.writeLine(fmt.Sprintf("[0:%d]R%c", device, field)); err != nil {
		return "", fmt.Errorf("unable to request field %c of device %d: %w", field, device, err)
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`-\[0:%d\]R%s:(.*)`, device, regexp.QuoteMeta(string(field))))
	for i := 0; i < fieldAttempts; i++ {
		line, err := c.readLine(lineTimeout)
		if err != nil {
			return "", err
		}
		if match := pattern.FindStringSubmatch(line); match != nil {
			return match[1], nil
		}
	}
	return "", ErrFieldUnavailable
}

func (c *connection) readInteger(device int, field byte) (int, bool) {
	text, err := c.readField(device, field)
	if err != nil {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return value, true
}

func (c *connection) readString(device int, field byte) (string, bool) {
	text, err := c.readField(device, field)
	if err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	return text, true
}

func (c *connection) writeField(device int, field byte, value string) (bool, error) {
	if err := c.writeLine(fmt.Sprintf("[0:%d]W%c:%s", device, field, value)); err != nil {
		return false, fmt.Errorf("unable to write field %c of device %d: %w", field, device, err)
	}

	expected := fmt.Sprintf("-[0:%d]W%c:%s", device, field, value)
	for i := 0; i < fieldAttempts; i++ {
		line, err := c.readLine(lineTimeout)
		if err != nil {
			return false, nil
		}
		if strings.Contains(line, expected) {
			return true, nil
		}
	}
	return false, nil
}

var pushPattern = regexp.MustCompile(`>\[0:(\d+)\](.*)`)

// pushGroup is one "|" separated group of a push line
type pushGroup []int

// parsePushLine splits an unsolicited status line into its device address
// and value groups. Groups with non integer parts are skipped.
func parsePushLine(line string) (int, []pushGroup, bool) {
	match := pushPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, nil, false
	}
	device, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, nil, false
	}

	var groups []pushGroup
	for _, text := range strings.Split(strings.TrimSpace(match[2]), "|") {
		parts := strings.Split(text, ":")
		group := make(pushGroup, 0, len(parts))
		valid := true
		for _, part := range parts {
			value, err := strconv.Atoi(part)
			if err != nil {
				valid = false
				break
			}
			group = append(group, value)
		}
		if valid {
			groups = append(groups, group)
		}
	}
	return device, groups, true
}
