package endpoint

import (
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellEmpty(t *testing.T) {
	cell := NewCell()

	addr, ok := cell.Get()
	require.False(t, ok)
	require.Nil(t, addr)
}

func TestCellSetGet(t *testing.T) {
	cell := NewCell()
	target := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	cell.Set(target)

	addr, ok := cell.Get()
	require.True(t, ok)
	require.Equal(t, target, addr)
}

func TestCellLastWriterWins(t *testing.T) {
	cell := NewCell()
	first := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1111}
	second := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 2222}

	cell.Set(first)
	cell.Set(second)

	addr, ok := cell.Get()
	require.True(t, ok)
	require.Equal(t, second, addr)
}

func TestCellClear(t *testing.T) {
	cell := NewCell()
	cell.Set(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999})

	cell.Clear()

	_, ok := cell.Get()
	require.False(t, ok)

	// Clearing an empty cell is fine
	cell.Clear()
	_, ok = cell.Get()
	require.False(t, ok)
}

func TestCellConcurrentAccess(t *testing.T) {
	cell := NewCell()
	target := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cell.Set(target)
			cell.Clear()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if addr, ok := cell.Get(); ok && addr != target {
					t.Error("unexpected endpoint value")
					return
				}
			}
		}()
	}
	wg.Wait()
}
