package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id,omitempty"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Asynchronous notifications share the stream and carry Event instead.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	Event     string      `json:"event"`
	Name      string      `json:"name"`
	RequestID int64       `json:"request_id"`
}

// budget bounds how long one command may block its caller.
type budget struct {
	attempts int
	deadline time.Duration
}

var (
	// loadBudget covers loadfile, which may race mpv's startup.
	loadBudget = budget{attempts: 3, deadline: time.Second}
	// controlBudget covers property writes and seeks issued from the UI.
	controlBudget = budget{attempts: 1, deadline: 250 * time.Millisecond}
)

const retryDelay = 100 * time.Millisecond

var requestSeq atomic.Int64

// sendCommand sends a JSON-IPC command with the load budget.
func (m *MPV) sendCommand(command []interface{}) (interface{}, error) {
	return m.send(command, loadBudget)
}

// sendControl sends a JSON-IPC command that must not stall the UI.
func (m *MPV) sendControl(command []interface{}) (interface{}, error) {
	return m.send(command, controlBudget)
}

// send retries transient connection errors within b and serializes writers.
func (m *MPV) send(command []interface{}, b budget) (interface{}, error) {
	if m.socketPath == "" {
		return nil, errNotRunning
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < b.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command, b.deadline)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", b.attempts, lastErr)
}

// doSendCommand performs a single IPC command attempt on a fresh connection.
func doSendCommand(socketPath string, command []interface{}, deadline time.Duration) (interface{}, error) {
	conn, err := net.DialTimeout("unix", socketPath, deadline)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestSeq.Add(1)
	if err := writeCommand(conn, command, id); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	return readReply(bufio.NewReader(conn), id)
}

// writeCommand sends one newline-delimited command.
func writeCommand(conn net.Conn, command []interface{}, id int64) error {
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// readReply skips broadcast events until the reply to id arrives.
func readReply(r *bufio.Reader, id int64) (interface{}, error) {
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}

		return resp.Data, nil
	}
}
