package src

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// TCPClient sends one request line at a time and reads back a whole reply.
type TCPClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func Dial(address string, timeout time.Duration) (*TCPClient, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, err
	}
	return &TCPClient{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (client *TCPClient) Close() error {
	return client.conn.Close()
}

// Do sends line and returns the raw reply bytes.
func (client *TCPClient) Do(line string) (string, error) {
	if _, err := io.WriteString(client.conn, line+CRLF); err != nil {
		return "", err
	}
	return readReply(client.reader)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(line, CRLF) {
		return "", fmt.Errorf("protocol error: line without CRLF %q", line)
	}
	return line, nil
}

func readReply(r *bufio.Reader) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	switch line[0] {
	case '+', '-', ':':
		return line, nil
	case '$':
		n, err := strconv.Atoi(strings.TrimSuffix(line[1:], CRLF))
		if err != nil {
			return "", fmt.Errorf("protocol error: bad bulk length %q", line)
		}
		if n < 0 {
			return line, nil
		}
		body := make([]byte, n+len(CRLF))
		if _, err := io.ReadFull(r, body); err != nil {
			return "", err
		}
		return line + string(body), nil
	case '*':
		n, err := strconv.Atoi(strings.TrimSuffix(line[1:], CRLF))
		if err != nil {
			return "", fmt.Errorf("protocol error: bad array length %q", line)
		}
		var b strings.Builder
		b.WriteString(line)
		for i := 0; i < n; i++ {
			elem, err := readReply(r)
			if err != nil {
				return "", err
			}
			b.WriteString(elem)
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("protocol error: unexpected reply %q", line)
}

// FormatReply renders a raw reply the way redis-cli prints it.
func FormatReply(raw string) string {
	out, err := formatReply(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		return raw
	}
	return out
}

func formatReply(r *bufio.Reader) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	body := strings.TrimSuffix(line[1:], CRLF)
	switch line[0] {
	case '+':
		return body, nil
	case '-':
		return "(error) " + body, nil
	case ':':
		return "(integer) " + body, nil
	case '$':
		n, err := strconv.Atoi(body)
		if err != nil {
			return "", err
		}
		if n < 0 {
			return "(nil)", nil
		}
		data := make([]byte, n+len(CRLF))
		if _, err := io.ReadFull(r, data); err != nil {
			return "", err
		}
		return strconv.Quote(string(data[:n])), nil
	case '*':
		n, err := strconv.Atoi(body)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "(empty array)", nil
		}
		lines := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			elem, err := formatReply(r)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("%d) %s", i, elem))
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("unexpected reply %q", line)
}
