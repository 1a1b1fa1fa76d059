package output

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

var (
	receivedMu   sync.Mutex
	receivedData [][]byte
)

// startTestUDPServer starts a UDP listener on an ephemeral port and
// collects every received datagram into receivedData.
func startTestUDPServer(t *testing.T) (*net.UDPConn, *net.UDPAddr) {
	t.Helper()

	receivedMu.Lock()
	receivedData = nil
	receivedMu.Unlock()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("Failed to start test UDP server: %v", err)
	}

	go func() {
		buf := make([]byte, 2048)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			data := append([]byte(nil), buf[:n]...)
			receivedMu.Lock()
			receivedData = append(receivedData, data)
			receivedMu.Unlock()
		}
	}()

	return conn, conn.LocalAddr().(*net.UDPAddr)
}

func getReceivedUDPData() [][]byte {
	receivedMu.Lock()
	defer receivedMu.Unlock()
	return append([][]byte(nil), receivedData...)
}

func TestNewUDP(t *testing.T) {
	if _, err := NewUDP(nil); err == nil {
		t.Errorf("NewUDP() expected error for nil logger")
	} else if !strings.Contains(err.Error(), "logger cannot be nil") {
		t.Errorf("NewUDP() error = %v, want logger cannot be nil", err)
	}

	udp, err := NewUDP(zap.NewNop())
	if err != nil {
		t.Fatalf("NewUDP() unexpected error = %v", err)
	}
	if udp.LocalAddr() == nil {
		t.Errorf("NewUDP() local address is nil")
	}

	if err := udp.Stop(context.Background()); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestUDP_WriteTo(t *testing.T) {
	listener, serverAddr := startTestUDPServer(t)
	defer listener.Close()

	udp, err := NewUDP(zap.NewNop())
	if err != nil {
		t.Fatalf("NewUDP() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testData1 := []byte("CONNECTED:127.0.0.1:47268")
	testData2 := []byte(">sin:1700000000123:0.5|g\n0.5\n")

	if err := udp.WriteTo(ctx, serverAddr, testData1); err != nil {
		t.Errorf("First WriteTo() failed: %v", err)
	}
	if err := udp.WriteTo(ctx, serverAddr, testData2); err != nil {
		t.Errorf("Second WriteTo() failed: %v", err)
	}

	// Give the datagrams time to arrive
	time.Sleep(100 * time.Millisecond)

	received := getReceivedUDPData()
	if len(received) != 2 {
		t.Fatalf("Expected 2 datagrams, got %d", len(received))
	}
	if string(received[0]) != string(testData1) {
		t.Errorf("First datagram = %q, want %q", received[0], testData1)
	}
	if string(received[1]) != string(testData2) {
		t.Errorf("Second datagram = %q, want %q", received[1], testData2)
	}

	if err := udp.Stop(ctx); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestUDP_WriteToNilAddr(t *testing.T) {
	udp, err := NewUDP(zap.NewNop())
	if err != nil {
		t.Fatalf("NewUDP() failed: %v", err)
	}
	defer udp.Stop(context.Background())

	if err := udp.WriteTo(context.Background(), nil, []byte("data")); err == nil {
		t.Errorf("WriteTo() expected error for nil address")
	}
}

func TestUDP_StopTwice(t *testing.T) {
	udp, err := NewUDP(zap.NewNop())
	if err != nil {
		t.Fatalf("NewUDP() failed: %v", err)
	}

	if err := udp.Stop(context.Background()); err != nil {
		t.Errorf("First Stop() failed: %v", err)
	}

	// Stopping an already-closed socket is tolerated
	if err := udp.Stop(context.Background()); err != nil {
		t.Errorf("Second Stop() failed: %v", err)
	}
}

func TestUDP_WriteAfterStop(t *testing.T) {
	udp, err := NewUDP(zap.NewNop())
	if err != nil {
		t.Fatalf("NewUDP() failed: %v", err)
	}

	if err := udp.Stop(context.Background()); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}

	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9}
	if err := udp.WriteTo(context.Background(), addr, []byte("data")); err == nil {
		t.Errorf("WriteTo() after Stop() expected error")
	}
}
